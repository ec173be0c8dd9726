// Package detector checks that input files look like CHIP-8 programs.
package detector

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// ErrUnsupportedFormat is returned for files of other systems.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// knownExtensions are the common extensions of CHIP-8 program files.
var knownExtensions = []string{".ch8", ".c8", ".rom", ".bin"}

// headers of file formats that are commonly mistaken for CHIP-8 programs.
var headers = []struct {
	system string
	offset int
	magic  []byte
}{
	{"NES", 0, []byte{'N', 'E', 'S', 0x1A}},
	{"Game Boy", 0x104, []byte{0xCE, 0xED, 0x66, 0x66}}, // start of the boot logo
}

// Detector handles input file detection.
type Detector struct {
	logger *log.Logger
}

// New creates a new file detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns an error if the data is a file of another system. Unknown
// file extensions only produce a warning as CHIP-8 programs have no header.
func (d *Detector) Detect(filename string, data []byte) error {
	for _, header := range headers {
		end := header.offset + len(header.magic)
		if len(data) >= end && bytes.Equal(data[header.offset:end], header.magic) {
			return fmt.Errorf("%w: %s ROM detected", ErrUnsupportedFormat, header.system)
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(knownExtensions, ext) {
		d.logger.Warn("Unknown file extension for a CHIP-8 program",
			log.String("file", filename))
	} else {
		d.logger.Debug("Detected CHIP-8 program",
			log.String("file", filename),
			log.Int("size", len(data)))
	}
	return nil
}
