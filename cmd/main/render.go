package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/CTAG07/docmarkup/pkg/components"
	"github.com/spf13/cobra"
)

var (
	renderProps string
)

var renderCmd = &cobra.Command{
	Use:   "render [component]",
	Short: "Render a component to stdout",
	Long: `Render a component from props and print the HTML fragment.
Props are read from --props as YAML (.yaml, .yml) or JSON, or from stdin with --props -.
Without props the component renders with its defaults.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: components.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], renderProps)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderProps, "props", "p", "", "Props file, or - for stdin")
}

func runRender(out io.Writer, in io.Reader, name, propsPath string) error {
	props, decode, err := readProps(propsPath, in)
	if err != nil {
		return fmt.Errorf("failed to read props: %w", err)
	}
	html, err := components.Render(name, props, decode)
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, strings.Join(components.Names(), ", "))
	}
	_, err = fmt.Fprintln(out, html)
	return err
}
