package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridx/pkg/grid"
)

// loadState reads a saved grid state. A missing file is not an error and
// yields ok == false.
func loadState(path string) (st grid.State, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return grid.State{}, false, nil
	}
	if err != nil {
		return grid.State{}, false, fmt.Errorf("read state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return grid.State{}, false, fmt.Errorf("%s: decode state: %w", path, err)
	}
	return st, true, nil
}

// saveState writes st to path, creating parent directories.
func saveState(path string, st grid.State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// fitWidths drops saved widths that do not describe n columns.
func fitWidths(widths []int, n int) []int {
	if len(widths) != n {
		return nil
	}
	return widths
}
