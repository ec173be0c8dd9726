// Package options contains the program options.
package options

// Frontend names.
const (
	Window   = "window"
	Terminal = "terminal"
	Headless = "headless"
)

// Default option values.
const (
	DefaultSpeed = 700
	DefaultScale = 10
	DefaultSteps = 1000
)

// Parameters contains file path options.
type Parameters struct {
	Input      string `flag:"i" usage:"input ROM file"`
	Output     string `flag:"o" usage:"output file of the program listing (default: stdout)"`
	Screenshot string `flag:"screenshot" usage:"write the final frame as PNG file (headless frontend)"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"f" usage:"frontend: window, terminal, headless" default:"window"`
	Wrap     string `flag:"wrap" usage:"sprite wrap policy: clip, wrap" default:"clip"`
	Speed    int    `flag:"speed" usage:"instructions per second" default:"700"`
	Scale    int    `flag:"scale" usage:"window pixel scale" default:"10"`
	Steps    int    `flag:"steps" usage:"number of instructions to execute (headless frontend)" default:"1000"`
	Seed     uint64 `flag:"seed" usage:"random number generator seed, 0 picks a random seed"`
	Disasm   bool   `flag:"disasm" usage:"print a program listing instead of running the ROM"`
	Paused   bool   `flag:"paused" usage:"start with the machine halted"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
}
