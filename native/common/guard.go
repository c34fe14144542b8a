package common

import (
	"fmt"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
)

// PauseView exposes the per-module pause flags.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects mutating calls against a paused module.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return fmt.Errorf("%s: %w", module, coreerrors.ErrPaused)
	}
	return nil
}
