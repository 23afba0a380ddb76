package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MarshalJSON renders data as indented JSON with a trailing newline
func MarshalJSON(data interface{}) ([]byte, error) {
	jsonData, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(jsonData, '\n'), nil
}

// WriteJSON writes data as indented JSON to w
func WriteJSON(w io.Writer, data interface{}) error {
	jsonData, err := MarshalJSON(data)
	if err != nil {
		return err
	}
	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// SaveJSON saves data as JSON to a file, creating its directory when needed
func SaveJSON(data interface{}, path string) error {
	jsonData, err := MarshalJSON(data)
	if err != nil {
		return err
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// EnsureDir ensures a directory exists
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
