package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sourceExtensions lists the raw source formats in lookup order.
var sourceExtensions = []string{".json", ".yaml", ".yml"}

// SourcePath returns the first existing raw source file for category under
// dataDir, named <category>_docs.<ext>.
func SourcePath(dataDir, category string) (string, error) {
	for _, ext := range sourceExtensions {
		path := filepath.Join(dataDir, category+"_docs"+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSourceNotFound, category)
}

// LoadSource reads the raw passage list for category from dataDir. The file
// must hold a list of strings or records.
func LoadSource(dataDir, category string) ([]any, error) {
	path, err := SourcePath(dataDir, category)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var items []any
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &items)
	default:
		err = yaml.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return items, nil
}
