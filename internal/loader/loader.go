// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
)

// ErrEmptyROM is returned for ROM files without any content.
var ErrEmptyROM = errors.New("empty ROM")

// Loader handles loading ROM files from disk.
type Loader struct {
	maxSize int
}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{
		maxSize: machine.MaxProgramSize,
	}
}

// Load reads the ROM file at the given path.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading ROM %s: %w", path, err)
	}
	return data, nil
}

// LoadFromReader reads a raw CHIP-8 program. Programs that do not fit into
// memory return an error wrapping machine.ErrProgramTooLarge.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, int64(l.maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyROM
	case len(data) > l.maxSize:
		return nil, fmt.Errorf("%w: more than %d bytes", machine.ErrProgramTooLarge, l.maxSize)
	}
	return data, nil
}
