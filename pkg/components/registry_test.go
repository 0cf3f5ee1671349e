package components

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"infoCard", "featureGrid", "statusBadge", "codeBlock", "alertBox"}, Names())
}

func TestRender(t *testing.T) {
	t.Run("JSONProps", func(t *testing.T) {
		html, err := Render("statusBadge", []byte(`{"status":"RUNNING"}`), nil)
		require.NoError(t, err)
		assert.Equal(t, StatusBadge(StatusBadgeConfig{Status: StatusRunning}), html)
	})

	t.Run("YAMLProps", func(t *testing.T) {
		props := []byte("columns: 2\nitems:\n  - title: Fast\n    icon: ⚡\n  - title: Safe\n    icon: 🔒\n    color: \"#2563eb\"\n")
		html, err := Render("featureGrid", props, yaml.Unmarshal)
		require.NoError(t, err)
		want := FeatureGrid(FeatureGridConfig{Columns: 2, Items: []FeatureItem{
			{Title: "Fast", Icon: "⚡"},
			{Title: "Safe", Icon: "🔒", Color: "#2563eb"},
		}})
		assert.Equal(t, want, html)
	})

	t.Run("EmptyProps", func(t *testing.T) {
		html, err := Render("codeBlock", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, CodeBlock(CodeBlockConfig{}), html)
	})

	t.Run("UnknownComponent", func(t *testing.T) {
		_, err := Render("carousel", nil, nil)
		require.ErrorIs(t, err, ErrUnknownComponent)
		assert.Contains(t, err.Error(), `"carousel"`)
	})

	t.Run("BadProps", func(t *testing.T) {
		_, err := Render("alertBox", []byte(`{"title": 3`), nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnknownComponent)
		assert.Contains(t, err.Error(), "alertBox")
	})

	t.Run("EveryNameRenders", func(t *testing.T) {
		for _, name := range Names() {
			html, err := Render(name, []byte(`{}`), nil)
			require.NoErrorf(t, err, "Render(%q)", name)
			assert.NotEmptyf(t, html, "Render(%q)", name)
		}
	})
}

func TestFuncMap(t *testing.T) {
	execute := func(t *testing.T, text string, data any) string {
		t.Helper()
		funcs := FuncMap()
		funcs["list"] = func(args ...any) []any { return args }
		tmpl, err := template.New("page").Funcs(funcs).Parse(text)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, tmpl.Execute(&buf, data))
		return buf.String()
	}

	t.Run("InfoCard", func(t *testing.T) {
		out := execute(t, `{{infoCard "Fast" "Sends in seconds" "⚡"}}`, nil)
		assert.Equal(t, string(InfoCard(InfoCardConfig{Title: "Fast", Description: "Sends in seconds", Icon: "⚡"})), out)

		out = execute(t, `{{infoCard "Fast" "Sends in seconds" "⚡" "#2563eb"}}`, nil)
		assert.Contains(t, out, "#2563eb")
	})

	t.Run("FeatureGridFromList", func(t *testing.T) {
		out := execute(t, `{{featureGrid (list (featureItem "A" "first" "1") (featureItem "B" "second" "2" "#dc2626")) 2}}`, nil)
		want := FeatureGrid(FeatureGridConfig{Columns: 2, Items: []FeatureItem{
			{Title: "A", Description: "first", Icon: "1"},
			{Title: "B", Description: "second", Icon: "2", Color: "#dc2626"},
		}})
		assert.Equal(t, string(want), out)
	})

	t.Run("FeatureGridFromData", func(t *testing.T) {
		items := []FeatureItem{{Title: "A"}}
		out := execute(t, `{{featureGrid .}}`, items)
		assert.Equal(t, string(FeatureGrid(FeatureGridConfig{Items: items})), out)
	})

	t.Run("FeatureGridRejectsForeignItems", func(t *testing.T) {
		tmpl, err := template.New("page").Funcs(FuncMap()).Parse(`{{featureGrid .}}`)
		require.NoError(t, err)
		err = tmpl.Execute(&bytes.Buffer{}, []any{"not an item"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a FeatureItem")
	})

	t.Run("StatusBadge", func(t *testing.T) {
		out := execute(t, `{{statusBadge "PAUSED"}}`, nil)
		assert.Contains(t, out, "#ea580c")
	})

	t.Run("TypedLabels", func(t *testing.T) {
		data := struct {
			Status Status
			Alert  AlertType
		}{StatusRunning, AlertWarning}
		assert.Equal(t, string(StatusBadge(StatusBadgeConfig{Status: StatusRunning})), execute(t, `{{statusBadge .Status}}`, data))
		out := execute(t, `{{alertBox .Alert "Careful" "Check input"}}`, data)
		assert.Contains(t, out, "#fef3c7")

		out = execute(t, `{{range .}}{{statusBadge .}}{{end}}`, Statuses())
		assert.Equal(t, len(Statuses()), strings.Count(out, `class="status-badge"`))
		assert.Contains(t, out, `#16a34a;">RUNNING`)
	})

	t.Run("CodeBlock", func(t *testing.T) {
		assert.NotContains(t, execute(t, `{{codeBlock "json" "{}"}}`, nil), "code-block-title")
		assert.Contains(t, execute(t, `{{codeBlock "json" "{}" "Body"}}`, nil), `<div class="code-block-title">Body</div>`)
	})

	t.Run("AlertBox", func(t *testing.T) {
		out := execute(t, `{{alertBox "success" "Done" "Campaign finished"}}`, nil)
		assert.Contains(t, out, "#dcfce7")
		assert.Contains(t, out, "✅")
	})
}
