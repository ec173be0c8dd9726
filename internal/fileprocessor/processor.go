// Package fileprocessor handles the program listing output
package fileprocessor

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// WriteListing disassembles the program and writes the listing to the
// configured output file or stdout.
func WriteListing(logger *log.Logger, opts options.Program, program []byte) error {
	output, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	if err := writeListing(output, program); err != nil {
		_ = output.Close()
		return err
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	if opts.Output != "" {
		logger.Info("Listing written", log.String("file", opts.Output))
	}
	return nil
}

func writeListing(output io.Writer, program []byte) error {
	buf := bufio.NewWriter(output)
	listing := disasm.Trace(program, memory.ProgramStart)
	w := writer.New(listing, buf, writer.Options{
		HexComments:    true,
		OffsetComments: true,
	})
	if err := w.Write(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing listing: %w", err)
	}
	return nil
}

func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return &nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nc *nopCloser) Close() error {
	return nil
}
