// Package frontend contains the parts shared by the machine frontends:
// the machine interface they drive, the host keyboard layout and the
// session that paces execution.
package frontend

import (
	"context"
	"image"

	"github.com/retroenv/retrochip8/internal/machine"
)

// Frontend runs a machine until the context is cancelled or the user quits.
type Frontend interface {
	Run(ctx context.Context) error
}

// Machine is the machine facade as used by the frontends.
type Machine interface {
	Start()
	Stop()
	Running() bool
	Err() error

	Step() error
	SingleStep() error
	LoadProgram(program []byte) error
	SetKeyState(key int, pressed bool) error

	Frame() *image.Paletted
	SoundActive() bool
	DebugState() machine.DebugState
}
