package templating

// TemplateConfig holds all configuration options for the templating engine.
type TemplateConfig struct {
	// MarkdownEnabled controls whether the markdown function converts its input.
	// When disabled, markdown returns the escaped source text.
	MarkdownEnabled bool `json:"markdown_enabled"`

	// MarkdownUnsafe lets raw HTML inside markdown through to the output.
	// Component markup can only be nested in markdown with this enabled.
	MarkdownUnsafe bool `json:"markdown_unsafe"`

	// HotReload makes the server watch the template directory and refresh on change.
	HotReload bool `json:"hot_reload"`

	// ReloadDebounceMs is how long Watch waits for a burst of file events to settle.
	ReloadDebounceMs int `json:"reload_debounce_ms"`

	// MaxTemplateSize caps, in bytes, the templates accepted by ExecuteTemplateString.
	// Zero or negative disables the check.
	MaxTemplateSize int `json:"max_template_size"`
}

// DefaultConfig returns a TemplateConfig with safe default values.
func DefaultConfig() *TemplateConfig {
	return &TemplateConfig{
		MarkdownEnabled:  true,
		MarkdownUnsafe:   false,
		HotReload:        false,
		ReloadDebounceMs: 100,
		MaxTemplateSize:  262144, // 256KB
	}
}
