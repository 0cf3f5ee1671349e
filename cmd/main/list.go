package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CTAG07/docmarkup/pkg/components"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:     "components",
	Aliases: []string{"list", "ls"},
	Short:   "List components and their style tables",
	Long: `List the registered components, the status badge colors and the alert styles.
On a color terminal each status and alert type is printed as a swatch in its own colors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.OutOrStdout(), listJSON)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

func runList(out io.Writer, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newComponentCatalog())
	}

	// The renderer detects color support on out, so piped output stays plain.
	r := lipgloss.NewRenderer(out)
	heading := r.NewStyle().Bold(true).MarginTop(1)
	swatch := r.NewStyle().Width(13).Padding(0, 1)

	fmt.Fprintln(out, r.NewStyle().Bold(true).Render("COMPONENTS"))
	for _, name := range components.Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}

	fmt.Fprintln(out, heading.Render("STATUS"))
	for _, s := range components.Statuses() {
		color := components.StatusColor(s)
		badge := swatch.Background(lipgloss.Color(color)).Foreground(lipgloss.Color("#ffffff")).Render(string(s))
		fmt.Fprintf(out, "  %s %s\n", badge, color)
	}
	fmt.Fprintf(out, "  %s %s\n", swatch.Render("(other)"), components.DefaultStatusColor)

	fmt.Fprintln(out, heading.Render("ALERT"))
	for _, t := range components.AlertTypes() {
		style := components.AlertStyleFor(t)
		label := swatch.
			Background(lipgloss.Color(style.Background)).
			Foreground(lipgloss.Color(style.Border)).
			Render(string(t))
		fmt.Fprintf(out, "  %s %s background %s border %s\n", label, style.Icon, style.Background, style.Border)
	}
	return nil
}
