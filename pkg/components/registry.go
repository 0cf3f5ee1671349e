package components

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
)

// ErrUnknownComponent is returned by Render for names that are not registered.
var ErrUnknownComponent = errors.New("unknown component")

// DecodeFunc unmarshals raw props into v.
// json.Unmarshal and yaml.Unmarshal both satisfy it.
type DecodeFunc func(data []byte, v any) error

type component struct {
	name   string
	render func(props []byte, decode DecodeFunc) (template.HTML, error)
}

func register[C any](name string, fn func(C) template.HTML) component {
	return component{
		name: name,
		render: func(props []byte, decode DecodeFunc) (template.HTML, error) {
			var cfg C
			if len(props) > 0 {
				if err := decode(props, &cfg); err != nil {
					return "", fmt.Errorf("failed to decode %s props: %w", name, err)
				}
			}
			return fn(cfg), nil
		},
	}
}

var (
	registry = []component{
		register("infoCard", InfoCard),
		register("featureGrid", FeatureGrid),
		register("statusBadge", StatusBadge),
		register("codeBlock", CodeBlock),
		register("alertBox", AlertBox),
	}

	registryByName = func() map[string]component {
		m := make(map[string]component, len(registry))
		for _, c := range registry {
			m[c.name] = c
		}
		return m
	}()
)

// Names returns the registered component names in a stable order.
func Names() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.name
	}
	return names
}

// Render decodes props into the configuration of the named component and renders it.
// A nil decode defaults to json.Unmarshal. Empty props render the component with
// its zero configuration.
func Render(name string, props []byte, decode DecodeFunc) (template.HTML, error) {
	c, ok := registryByName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	if decode == nil {
		decode = json.Unmarshal
	}
	return c.render(props, decode)
}
