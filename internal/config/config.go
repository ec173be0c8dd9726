// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachineConfig maps the program options to the machine settings.
func CreateMachineConfig(logger *log.Logger, opts options.Program) (machine.Config, error) {
	policy, err := framebuffer.ParseWrapPolicy(opts.Wrap)
	if err != nil {
		return machine.Config{}, fmt.Errorf("parsing wrap policy: %w", err)
	}

	return machine.Config{
		Logger:     logger,
		WrapPolicy: policy,
		Seed:       opts.Seed,
	}, nil
}

// CreateScheduler returns the instruction pacing for the configured speed.
func CreateScheduler(opts options.Program) *scheduler.Scheduler {
	return scheduler.New(scheduler.Config{
		Rate: opts.Speed,
	})
}
