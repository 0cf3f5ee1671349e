package components

import (
	"html/template"
	"strings"
)

// InfoCardConfig configures InfoCard.
type InfoCardConfig struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	// Color is the left border color. Empty or invalid means DefaultColor.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// FeatureItem is a single cell of a FeatureGrid.
type FeatureItem struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	// Color tints the icon. Empty or invalid means DefaultColor.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// FeatureGridConfig configures FeatureGrid.
type FeatureGridConfig struct {
	Items []FeatureItem `json:"items" yaml:"items"`
	// Columns is the number of grid columns. Zero or negative means DefaultColumns.
	Columns int `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// StatusBadgeConfig configures StatusBadge.
type StatusBadgeConfig struct {
	Status Status `json:"status" yaml:"status"`
	// Type is a descriptive tag, DefaultBadgeType when empty. Rendering ignores it.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// CodeBlockConfig configures CodeBlock.
type CodeBlockConfig struct {
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
	// Title is an optional caption. No title element is emitted when it is empty.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

type featureItemView struct {
	FeatureItem
	Color template.CSS
}

// AlertBoxConfig configures AlertBox.
type AlertBoxConfig struct {
	Type    AlertType `json:"type" yaml:"type"`
	Title   string    `json:"title" yaml:"title"`
	Message string    `json:"message" yaml:"message"`
}

var (
	infoCardTmpl = template.Must(template.New("infoCard").Parse(
		`<div class="info-card" style="border-left: 4px solid {{.Color}};">
  <div class="info-card-header">
    <span class="info-card-icon">{{.Icon}}</span>
    <h3 class="info-card-title">{{.Title}}</h3>
  </div>
  <p class="info-card-description">{{.Description}}</p>
</div>`))

	featureGridTmpl = template.Must(template.New("featureGrid").Parse(
		`<div class="feature-grid" style="grid-template-columns: repeat({{.Columns}}, 1fr);">
{{- range .Items}}
  <div class="feature-item">
    <div class="feature-icon" style="color: {{.Color}}">{{.Icon}}</div>
    <h4 class="feature-title">{{.Title}}</h4>
    <p class="feature-description">{{.Description}}</p>
  </div>
{{- end}}
</div>`))

	statusBadgeTmpl = template.Must(template.New("statusBadge").Parse(
		`<span class="status-badge" style="background-color: {{.Color}};">{{.Status}}</span>`))

	codeBlockTmpl = template.Must(template.New("codeBlock").Parse(
		`<div class="code-block">
{{- if .Title}}
  <div class="code-block-title">{{.Title}}</div>
{{- end}}
  <pre><code class="language-{{.Language}}">{{.Code}}</code></pre>
</div>`))

	alertBoxTmpl = template.Must(template.New("alertBox").Parse(
		`<div class="alert-box" style="background-color: {{.Style.Background}}; border-left: 4px solid {{.Style.Border}};">
  <div class="alert-header">
    <span class="alert-icon">{{.Style.Icon}}</span>
    <strong class="alert-title">{{.Title}}</strong>
  </div>
  <p class="alert-message">{{.Message}}</p>
</div>`))
)

// InfoCard renders a bordered card with an icon, a title and a description.
// A Color that is not a valid CSS color is replaced by DefaultColor.
func InfoCard(cfg InfoCardConfig) template.HTML {
	return execute(infoCardTmpl, struct {
		InfoCardConfig
		Color template.CSS
	}{cfg, cssColor(cfg.Color)})
}

// FeatureGrid renders cfg.Items, in the given order, inside a grid container.
// Item colors follow the same rules as InfoCard.
func FeatureGrid(cfg FeatureGridConfig) template.HTML {
	if cfg.Columns <= 0 {
		cfg.Columns = DefaultColumns
	}
	items := make([]featureItemView, len(cfg.Items))
	for i, item := range cfg.Items {
		items[i] = featureItemView{item, cssColor(item.Color)}
	}
	return execute(featureGridTmpl, struct {
		Items   []featureItemView
		Columns int
	}{items, cfg.Columns})
}

// StatusBadge renders an inline badge colored after cfg.Status.
// The label is always shown verbatim, even when it is not a known status.
func StatusBadge(cfg StatusBadgeConfig) template.HTML {
	return execute(statusBadgeTmpl, struct {
		Status Status
		Color  string
	}{cfg.Status, StatusColor(cfg.Status)})
}

// CodeBlock renders a preformatted code sample tagged with a language-<lang> class.
func CodeBlock(cfg CodeBlockConfig) template.HTML {
	return execute(codeBlockTmpl, cfg)
}

// AlertBox renders a callout styled after cfg.Type.
func AlertBox(cfg AlertBoxConfig) template.HTML {
	return execute(alertBoxTmpl, struct {
		Style   AlertStyle
		Title   string
		Message string
	}{AlertStyleFor(cfg.Type), cfg.Title, cfg.Message})
}

// BadgeType returns the tag of cfg, applying DefaultBadgeType.
func (cfg StatusBadgeConfig) BadgeType() string {
	return orDefault(cfg.Type, DefaultBadgeType)
}

func execute(t *template.Template, data any) template.HTML {
	var builder strings.Builder
	// The templates are fixed and the data shapes are known, so the only
	// possible failure is the writer, and strings.Builder does not fail.
	_ = t.Execute(&builder, data)
	return template.HTML(builder.String())
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
