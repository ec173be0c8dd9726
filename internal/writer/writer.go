// Package writer writes program listings as assembly text.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
)

const dataBytesPerLine = 8

// Options of the writer.
type Options struct {
	HexComments    bool // output the instruction bytes as comment
	OffsetComments bool // output the address as comment
}

// Writer writes a program listing.
type Writer struct {
	listing *disasm.Listing
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(listing *disasm.Listing, writer io.Writer, options Options) *Writer {
	return &Writer{
		listing: listing,
		options: options,
		writer:  writer,
	}
}

// Write outputs the header and all offsets of the listing.
func (w Writer) Write() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	var previousLineWasCode bool
	offsets := w.listing.Offsets
	for i := 0; i < len(offsets); i++ {
		offset := offsets[i]

		if err := w.writeLabel(i, offset); err != nil {
			return err
		}

		// print an empty line in case of data after code and vice versa
		if i > 0 && offset.Label == "" && offset.IsCode() != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = offset.IsCode()

		if offset.IsCode() {
			if err := w.writeCodeLine(offset); err != nil {
				return err
			}
			continue
		}

		count, err := w.writeDataLine(offsets[i:])
		if err != nil {
			return err
		}
		i += count - 1
	}
	return nil
}

func (w Writer) writeHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; CHIP-8 program listing\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, ".org $%03X\n\n", w.listing.Base); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}
	return nil
}

func (w Writer) writeLabel(index int, offset disasm.Offset) error {
	if offset.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "%s:\n", offset.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(offset disasm.Offset) error {
	comment := w.comment(offset.Address, offset.Data, offset.Comment)
	return w.writeLine(offset.Code, comment)
}

// writeDataLine bundles consecutive data bytes without labels into a single
// line and returns the number of consumed offsets.
func (w Writer) writeDataLine(offsets []disasm.Offset) (int, error) {
	var data []byte
	for i, offset := range offsets {
		if offset.IsCode() || (i > 0 && offset.Label != "") || len(data) == dataBytesPerLine {
			break
		}
		data = append(data, offset.Data...)
	}

	buf := &strings.Builder{}
	buf.WriteString(".byte ")
	for i, b := range data {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "$%02X", b)
	}

	comment := w.comment(offsets[0].Address, nil, offsets[0].Comment)
	if err := w.writeLine(buf.String(), comment); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w Writer) comment(address uint16, data []byte, extra string) string {
	var parts []string
	if w.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%03X", address))
	}
	if w.options.HexComments && len(data) > 0 {
		parts = append(parts, fmt.Sprintf("% 02X", data))
	}
	if extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, "  ")
}

func (w Writer) writeLine(line, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "  %s\n", line)
	} else {
		_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", line, comment)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
