// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/options"
)

var frontends = []string{options.Window, options.Terminal, options.Headless}

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "invalid usage"
	}
	return e.msg
}

// ShowUsage prints the usage text and the flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(frontends, ", "))
	}

	opts.Wrap = strings.ToLower(opts.Wrap)
	if _, err := framebuffer.ParseWrapPolicy(opts.Wrap); err != nil {
		return err
	}

	if opts.Speed <= 0 {
		return fmt.Errorf("invalid speed %d: must be positive", opts.Speed)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d: must be positive", opts.Scale)
	}
	if opts.Steps < 0 {
		return fmt.Errorf("invalid step count %d: must not be negative", opts.Steps)
	}
	if opts.Output != "" && !opts.Disasm {
		return errors.New("option -o requires the -disasm option")
	}
	if opts.Screenshot != "" && opts.Frontend != options.Headless {
		return fmt.Errorf("option -screenshot requires the %s frontend", options.Headless)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the program listing output file, printed on console if no name given")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "name of the PNG file to write the final frame to (headless frontend)")
	flags.StringVar(&opts.Frontend, "f", options.Window, "frontend to run the machine with (window/terminal/headless)")
	flags.StringVar(&opts.Wrap, "wrap", framebuffer.Clip.String(), "sprite wrap policy at the display edges (clip/wrap)")
	flags.IntVar(&opts.Speed, "speed", options.DefaultSpeed, "number of instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "pixel scale of the window frontend")
	flags.IntVar(&opts.Steps, "steps", options.DefaultSteps, "number of instructions to execute with the headless frontend")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 picks a random seed")
	flags.BoolVar(&opts.Disasm, "disasm", false, "output a program listing of the ROM instead of running it")
	flags.BoolVar(&opts.Paused, "paused", false, "start with the machine halted")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
