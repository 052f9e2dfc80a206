// Package statefile reads and writes whole-snapshot JSON state files.
// State is replaced as a whole on save; partial updates do not exist.
// Concurrency across overlapping program runs is not handled here and
// must be serialized externally, for example by a scheduler lock.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrCorrupt = errors.New("state file is corrupt")

// Load reads the JSON state file at path into target.
// A missing file leaves target untouched and returns a nil error.
// Corrupt content returns an error wrapping ErrCorrupt so the caller
// can log a warning and continue with the zero value of target.
func Load(path string, target any) (err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("reading state file: %w", err)
	}

	err = json.Unmarshal(data, target)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrCorrupt, path, err)
	}
	return nil
}

// Save writes source as indented JSON to path, by writing to a
// temporary file in the same directory and renaming it over path,
// so a crash mid-write cannot leave a truncated state file behind.
func Save(path string, source any) (err error) {
	data, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	_, err = tempFile.Write(data)
	if err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
		return fmt.Errorf("writing temporary file: %w", err)
	}

	err = tempFile.Close()
	if err != nil {
		_ = os.Remove(tempFile.Name())
		return fmt.Errorf("closing temporary file: %w", err)
	}

	err = os.Rename(tempFile.Name(), path)
	if err != nil {
		_ = os.Remove(tempFile.Name())
		return fmt.Errorf("renaming temporary file: %w", err)
	}
	return nil
}
