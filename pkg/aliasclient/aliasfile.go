package aliasclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AliasEntry is a single alias declared in an alias file.
type AliasEntry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

type aliasFile struct {
	Aliases []AliasEntry `json:"aliases" yaml:"aliases"`
}

// LoadAliasFile reads an alias table from a YAML or JSON file:
//
//	aliases:
//	  - name: post
//	    path: /posts/:id
func LoadAliasFile[K ~string](path string) (map[K]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("aliases file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open aliases file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read aliases file: %w", err)
	}

	return ParseAliases[K](raw, filepath.Ext(path))
}

// ParseAliases decodes alias file content. ext selects the decoder (".yaml", ".yml",
// ".json"); an empty ext tries each in turn.
func ParseAliases[K ~string](data []byte, ext string) (map[K]string, error) {
	parsed, err := parseAliasFile(data, ext)
	if err != nil {
		return nil, err
	}
	if len(parsed.Aliases) == 0 {
		return nil, errors.New("aliases file contains no aliases entries")
	}

	out := make(map[K]string, len(parsed.Aliases))
	for i, entry := range parsed.Aliases {
		entry = sanitizeAliasEntry(entry)
		if err := validateAliasEntry(entry); err != nil {
			return nil, fmt.Errorf("aliases[%d]: %w", i, err)
		}
		name := K(entry.Name)
		if _, exists := out[name]; exists {
			return nil, fmt.Errorf("duplicate alias %q", entry.Name)
		}
		out[name] = entry.Path
	}
	return out, nil
}

func parseAliasFile(data []byte, ext string) (aliasFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed aliasFile
		err := d.fn(data, &parsed)
		if err == nil {
			return parsed, nil
		}
		if ext != "" {
			return aliasFile{}, fmt.Errorf("decode aliases %s: %w", d.name, err)
		}
	}

	return aliasFile{}, errors.New("aliases file format not recognized (expected YAML or JSON)")
}

func sanitizeAliasEntry(e AliasEntry) AliasEntry {
	e.Name = strings.TrimSpace(e.Name)
	e.Path = strings.TrimSpace(e.Path)
	return e
}

func validateAliasEntry(e AliasEntry) error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Path == "" {
		return fmt.Errorf("path is required for alias %q", e.Name)
	}
	return nil
}
