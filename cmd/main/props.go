package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/docmarkup/pkg/components"
	"gopkg.in/yaml.v3"
)

// decoderFor picks the props decoder for a media type or file extension.
// Anything that does not name YAML is decoded as JSON.
func decoderFor(kind string) components.DecodeFunc {
	switch strings.ToLower(kind) {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", ".yaml", ".yml":
		return yaml.Unmarshal
	default:
		return json.Unmarshal
	}
}

// readProps loads props from path, or from stdin when path is "-". An empty
// path yields no props. The returned decoder matches the file extension;
// stdin is treated as YAML, which also accepts JSON.
func readProps(path string, stdin io.Reader) ([]byte, components.DecodeFunc, error) {
	switch path {
	case "":
		return nil, json.Unmarshal, nil
	case "-":
		data, err := io.ReadAll(stdin)
		return data, yaml.Unmarshal, err
	default:
		data, err := os.ReadFile(path)
		return data, decoderFor(filepath.Ext(path)), err
	}
}
