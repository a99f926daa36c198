package bestiary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadYAML builds a Database from a YAML list of entries. Invalid entries are
// skipped, logged and returned like CSV rows.
//
// Postcondition: Returns a Database of valid entries or a decode error.
func LoadYAML(r io.Reader, logger *zap.Logger) (*Database, []RowError, error) {
	var entries []Entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("parsing bestiary YAML: %w", err)
	}
	db := newDatabase()
	var skipped []RowError
	for i, e := range entries {
		if err := db.add(e); err != nil {
			skipped = append(skipped, skip(logger, i+1, e.Name, err))
		}
	}
	return db, skipped, nil
}

// WriteYAML writes every entry of db as a YAML list.
func WriteYAML(w io.Writer, db *Database) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(db.Entries()); err != nil {
		return fmt.Errorf("encoding bestiary YAML: %w", err)
	}
	return enc.Close()
}

// Load reads the bestiary at path, choosing the format by file extension.
//
// Precondition: path must name a readable .csv, .yaml or .yml file.
// Postcondition: Returns the Database and skipped rows, or an error.
func Load(path string, logger *zap.Logger) (*Database, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening bestiary %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f, logger)
	case ".yaml", ".yml":
		return LoadYAML(f, logger)
	default:
		return nil, nil, fmt.Errorf("bestiary %q: unsupported format %q", path, filepath.Ext(path))
	}
}
