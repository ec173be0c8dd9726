// Package main implements the main entry point for a CHIP-8 interpreter
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Running ROM failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	program, err := loader.New().Load(opts.Input)
	if err != nil {
		return err
	}
	if err := detector.New(logger).Detect(opts.Input, program); err != nil {
		return err
	}
	if opts.Disasm {
		return fileprocessor.WriteListing(logger, opts, program)
	}

	cfg, err := config.CreateMachineConfig(logger, opts)
	if err != nil {
		return err
	}
	m := machine.New(cfg)
	if err := m.LoadProgram(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if !opts.Paused {
		m.Start()
	}

	fe := createFrontend(logger, opts, m, program)
	return fe.Run(ctx)
}

func createFrontend(logger *log.Logger, opts options.Program, m *machine.Machine, program []byte) frontend.Frontend {
	if opts.Frontend == options.Headless {
		return headless.New(logger, m, headless.Config{
			Steps:      opts.Steps,
			Screenshot: opts.Screenshot,
			Scale:      opts.Scale,
		})
	}

	session := frontend.NewSession(logger, m, config.CreateScheduler(opts), program)
	if opts.Frontend == options.Terminal {
		return terminal.New(logger, session, terminal.Config{
			ShowDebug: opts.Debug,
		})
	}
	return window.New(logger, session, window.Config{
		Scale:     opts.Scale,
		Title:     "retrochip8 - " + filepath.Base(opts.Input),
		ShowDebug: opts.Debug,
	})
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrochip8", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
