package config

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestCreateMachineConfig(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := options.Program{
		Flags: options.Flags{Wrap: "wrap", Seed: 7},
	}

	cfg, err := CreateMachineConfig(logger, opts)
	assert.NoError(t, err)
	assert.Equal(t, framebuffer.Wrap, cfg.WrapPolicy)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.NotNil(t, cfg.Logger)

	opts.Wrap = "mirror"
	_, err = CreateMachineConfig(logger, opts)
	assert.Error(t, err)
}

func TestCreateScheduler(t *testing.T) {
	s := CreateScheduler(options.Program{Flags: options.Flags{Speed: 600}})
	assert.NotNil(t, s)
	assert.Equal(t, 0, s.Due())
	assert.Equal(t, float64(0), s.Frequency())
}
