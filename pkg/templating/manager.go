package templating

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/CTAG07/docmarkup/pkg/components"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
)

const (
	pageSuffix    = ".tmpl.html"
	partialSuffix = ".part.html"
)

// ErrTemplateTooLarge is returned by ExecuteTemplateString when the content
// exceeds TemplateConfig.MaxTemplateSize.
var ErrTemplateTooLarge = errors.New("template exceeds maximum size")

// TemplateManager is the central controller for the templating engine.
// It manages the template set, configuration and function map, and is
// responsible for loading, parsing, and executing templates in a
// concurrent-safe manner.
// All methods are concurrent-safe.
type TemplateManager struct {
	logger         *slog.Logger
	config         *TemplateConfig
	markdown       goldmark.Markdown
	templates      *template.Template
	cleanTemplates *template.Template
	pageNames      []string
	funcMap        template.FuncMap
	templateDir    string
	mu             sync.RWMutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// The templates are read from the "templates" subdirectory of dataDir. A
// missing directory yields an empty set rather than an error. It performs an
// initial Refresh to load all templates.
func NewTemplateManager(logger *slog.Logger, config *TemplateConfig, dataDir string) (*TemplateManager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	tm := &TemplateManager{
		logger:      logger,
		config:      config,
		markdown:    newMarkdown(config),
		templateDir: filepath.Join(dataDir, "templates"),
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized", "template_dir", tm.templateDir)
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	funcs := template.FuncMap{
		// Markdown (from funcs_markdown.go)
		"markdown": tm.renderMarkdown,

		// Logic & Control (from funcs_logic.go)
		"repeat":  repeat,
		"list":    list,
		"dict":    dict,
		"default": defaultValue,

		// Simple (from funcs_simple.go)
		"add":   add,
		"sub":   sub,
		"div":   div,
		"mult":  mult,
		"max":   max,
		"min":   min,
		"mod":   mod,
		"inc":   inc,
		"dec":   dec,
		"and":   and,
		"or":    or,
		"not":   not,
		"isSet": isSet,
	}
	// Components (from pkg/components)
	for name, fn := range components.FuncMap() {
		funcs[name] = fn
	}
	return funcs
}

// SetConfig applies a new configuration to the TemplateManager without
// needing to restart the application. The template set is not re-parsed;
// call Refresh for that.
func (tm *TemplateManager) SetConfig(config *TemplateConfig) {
	if config == nil {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.config = config
	tm.markdown = newMarkdown(config)
}

// Refresh reloads all templates from the filesystem. This function allows for
// updates to templates without restarting the application. On error the
// previously loaded set stays in place.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.logger.Info("Loading template files...", "dir", tm.templateDir)

	pages, err := tm.discover("**/*" + pageSuffix)
	if err != nil {
		return err
	}
	partials, err := tm.discover("**/*" + partialSuffix)
	if err != nil {
		return err
	}

	root := template.New("").Funcs(tm.funcMap)
	for _, name := range append(slices.Clone(pages), partials...) {
		content, err := os.ReadFile(filepath.Join(tm.templateDir, filepath.FromSlash(name)))
		if err != nil {
			tm.logger.Error("failed to read template file", "template", name, "error", err)
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err = root.New(name).Parse(string(content)); err != nil {
			tm.logger.Error("failed to parse template file", "template", name, "error", err)
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	if len(pages) == 0 {
		tm.logger.Warn("No page templates found", "dir", tm.templateDir, "pattern", "**/*"+pageSuffix)
	}

	// Create a clean clone for string executions after all parsing is complete.
	clean, err := root.Clone()
	if err != nil {
		tm.logger.Error("failed to create a clean clone of templates", "error", err)
		return err
	}

	tm.templates = root
	tm.cleanTemplates = clean
	tm.pageNames = pages
	tm.logger.Info("Loaded template and partial files", "pages", len(pages), "partials", len(partials))
	return nil
}

// discover returns the slash-separated paths, relative to the template
// directory, of the files matching pattern, sorted.
func (tm *TemplateManager) discover(pattern string) ([]string, error) {
	if _, err := os.Stat(tm.templateDir); errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	matches, err := doublestar.Glob(os.DirFS(tm.templateDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		tm.logger.Error("failed to glob template files", "pattern", pattern, "error", err)
		return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// Execute renders a specific template by name, writing the output to the provided io.Writer.
// Names are paths relative to the template directory, e.g. "guides/intro.tmpl.html".
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templates.ExecuteTemplate(w, name, data)
}

// ExecuteTemplateString parses and executes a raw template string using the manager's
// function map. Partials of the loaded set can be referenced with the template action.
// This is ideal for testing or previewing templates without saving them to disk.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if limit := tm.config.MaxTemplateSize; limit > 0 && len(content) > limit {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTemplateTooLarge, len(content), limit)
	}

	// Clone the clean, unexecuted template set to avoid race conditions and execution state issues.
	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}

	// Parse the user-provided content string into the unnamed root of this fresh clone.
	t, err := tempSet.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}

	return t.Execute(w, data)
}

// IsPage reports whether name is a loaded page template.
func (tm *TemplateManager) IsPage(name string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	_, found := slices.BinarySearch(tm.pageNames, name)
	return found
}

// GetPageNames returns the names of the loaded page templates, sorted.
func (tm *TemplateManager) GetPageNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return slices.Clone(tm.pageNames)
}

// GetTemplateNames returns the names of every loaded page and partial, sorted.
// Templates declared with define inside those files are included as well.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	names := []string{}
	for _, t := range tm.templates.Templates() {
		// The root template has no name. We don't want to return it in the list.
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	slices.Sort(names)
	return names
}

// GetConfig returns a copy of the current configuration.
// This mainly exists for concurrency-safety reasons.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateDir returns the template dir that the TemplateManager uses.
func (tm *TemplateManager) GetTemplateDir() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templateDir
}

// isTemplateFile reports whether path names a page or partial file.
func isTemplateFile(path string) bool {
	return strings.HasSuffix(path, pageSuffix) || strings.HasSuffix(path, partialSuffix)
}
