package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/log"
)

// Session drives a machine from a host loop. It paces the steps using the
// scheduler and implements the host controls.
type Session struct {
	logger    *log.Logger
	machine   Machine
	scheduler *scheduler.Scheduler
	program   []byte
}

// NewSession returns a session for a machine that has the program loaded.
func NewSession(logger *log.Logger, m Machine, sched *scheduler.Scheduler, program []byte) *Session {
	return &Session{
		logger:    logger,
		machine:   m,
		scheduler: sched,
		program:   program,
	}
}

// Machine returns the driven machine.
func (s *Session) Machine() Machine {
	return s.machine
}

// Run calls frame with the number of due steps on every tick of the
// interval until the context is cancelled or frame returns an error.
func (s *Session) Run(ctx context.Context, interval time.Duration, frame func(due int) error) error {
	if err := s.scheduler.Run(ctx, interval, frame); err != nil {
		return fmt.Errorf("running session: %w", err)
	}
	return nil
}

// Advance executes the steps that are due since the previous call.
func (s *Session) Advance() (int, error) {
	return s.Execute(s.scheduler.Due())
}

// Execute runs up to due steps while the machine is running. The clock
// keeps running while the machine is halted so that resuming does not
// cause a burst of steps.
func (s *Session) Execute(due int) (int, error) {
	if !s.machine.Running() {
		return 0, nil
	}

	for i := range due {
		if err := s.machine.Step(); err != nil {
			return i, err
		}
		if !s.machine.Running() {
			return i + 1, nil
		}
	}
	return due, nil
}

// TogglePause halts a running machine or resumes a halted one. A machine
// halted by a fault can only be resumed by a restart.
func (s *Session) TogglePause() {
	switch {
	case s.machine.Running():
		s.machine.Stop()
		s.logger.Debug("Paused")
	case s.machine.Err() == nil:
		s.machine.Start()
		s.logger.Debug("Resumed")
	}
}

// Restart reloads the program and starts the machine.
func (s *Session) Restart() error {
	if err := s.machine.LoadProgram(s.program); err != nil {
		return fmt.Errorf("reloading program: %w", err)
	}
	s.machine.Start()
	s.scheduler.Reset()
	s.logger.Debug("Restarted")
	return nil
}

// SingleStep executes one instruction while the machine is paused.
func (s *Session) SingleStep() error {
	if s.machine.Running() {
		return nil
	}
	return s.machine.SingleStep()
}

// SetKey forwards a keypad key transition to the machine.
func (s *Session) SetKey(key int, pressed bool) {
	if err := s.machine.SetKeyState(key, pressed); err != nil {
		s.logger.Warn("Setting key state failed", log.Int("key", key), log.Err(err))
	}
}

// Status returns a short text describing the run state.
func (s *Session) Status() string {
	if err := s.machine.Err(); err != nil {
		return fmt.Sprintf("halted: %v", err)
	}
	if !s.machine.Running() {
		return "paused"
	}
	return fmt.Sprintf("running %.0f Hz", s.scheduler.Frequency())
}
