package pipeline

import (
	"fmt"
	"strings"
)

// Mode is the process-wide synchronization mode.
type Mode string

const (
	ModeOff  Mode = "OFF"
	ModeLoad Mode = "LOAD"
	ModeSave Mode = "SAVE"
)

// ParseMode accepts any case of the three mode names.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeOff, ModeLoad, ModeSave:
		return m, nil
	default:
		return "", fmt.Errorf("invalid sync mode %q: must be one of off, load, save", s)
	}
}

// ModeReader returns the current mode. Pipelines call it before every
// remote call, so it must be cheap and safe for concurrent use.
type ModeReader interface {
	Mode() Mode
}

// FixedMode is a ModeReader that never changes.
type FixedMode Mode

func (m FixedMode) Mode() Mode { return Mode(m) }
