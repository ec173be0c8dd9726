// Package headless runs a machine for a fixed number of steps without any
// display, optionally saving the final frame as screenshot.
package headless

import (
	"context"
	"fmt"

	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/screenshot"
	"github.com/retroenv/retrogolib/log"
)

// contextCheckInterval is the number of steps between context checks.
const contextCheckInterval = 1024

// Config contains the headless frontend settings.
type Config struct {
	Steps      int    // number of steps to execute
	Screenshot string // PNG file to write the final frame to, optional
	Scale      int    // pixel scale of the screenshot
}

// Headless is a frontend without display and input.
type Headless struct {
	logger  *log.Logger
	machine frontend.Machine
	cfg     Config
}

var _ frontend.Frontend = (*Headless)(nil)

// New returns a new headless frontend.
func New(logger *log.Logger, m frontend.Machine, cfg Config) *Headless {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	return &Headless{
		logger:  logger,
		machine: m,
		cfg:     cfg,
	}
}

// Run executes the configured number of steps as fast as possible.
func (h *Headless) Run(ctx context.Context) error {
	h.machine.Start()

	for i := range h.cfg.Steps {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := h.machine.Step(); err != nil {
			return fmt.Errorf("executing step %d: %w", i, err)
		}
	}

	h.logger.Info("Execution finished", log.Int("steps", h.cfg.Steps))
	h.logger.Debug("Machine state", log.String("state", h.machine.DebugState().String()))

	if h.cfg.Screenshot == "" {
		return nil
	}
	if err := screenshot.Save(h.cfg.Screenshot, h.machine.Frame(), h.cfg.Scale); err != nil {
		return fmt.Errorf("saving screenshot: %w", err)
	}
	h.logger.Info("Screenshot saved", log.String("file", h.cfg.Screenshot))
	return nil
}
