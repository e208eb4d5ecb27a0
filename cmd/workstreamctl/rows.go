package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/yukikurage/workstream-api/internal/importer"
	"gopkg.in/yaml.v3"
)

// rowFile is the wrapped form of a rows file. A bare list of rows is accepted too.
type rowFile struct {
	Rows []importer.Row `json:"rows" yaml:"rows"`
}

// readRows loads spreadsheet rows from a JSON or YAML file, chosen by extension.
func readRows(fs afero.Fs, path string) ([]importer.Row, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rows []importer.Row
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rows, err = decodeRows(data, yaml.Unmarshal)
	case ".json", "":
		rows, err = decodeRows(data, json.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported rows file %s: use .json, .yaml or .yml", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

func decodeRows(data []byte, unmarshal func([]byte, any) error) ([]importer.Row, error) {
	var rows []importer.Row
	if err := unmarshal(data, &rows); err == nil {
		return rows, nil
	}
	var wrapped rowFile
	if err := unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Rows, nil
}
