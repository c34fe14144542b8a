package common

import (
	"fmt"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
)

// AdminState exposes the per-module administrative parameters.
type AdminState interface {
	PauseView
	ModuleAdmin(module string) ([20]byte, bool, error)
	SetModuleAdmin(module string, admin [20]byte) error
	SetPaused(module string, paused bool) error
}

// RequireAdmin fails unless caller is the configured module admin.
func RequireAdmin(s AdminState, module string, caller [20]byte) error {
	admin, ok, err := s.ModuleAdmin(module)
	if err != nil {
		return err
	}
	if !ok || admin != caller {
		return fmt.Errorf("%s: %w: caller is not the admin", module, coreerrors.ErrUnauthorized)
	}
	return nil
}

// TransferAdmin hands module administration from caller to next.
func TransferAdmin(s AdminState, module string, caller, next [20]byte) error {
	if err := RequireAdmin(s, module, caller); err != nil {
		return err
	}
	if next == ([20]byte{}) {
		return fmt.Errorf("%s: %w: admin must not be the zero account", module, coreerrors.ErrInvalidAmount)
	}
	if next == caller {
		return fmt.Errorf("%s: %w: account is already the admin", module, coreerrors.ErrAlreadyExists)
	}
	return s.SetModuleAdmin(module, next)
}

// SetPaused toggles the module kill switch on behalf of the admin.
func SetPaused(s AdminState, module string, caller [20]byte, paused bool) error {
	if err := RequireAdmin(s, module, caller); err != nil {
		return err
	}
	return s.SetPaused(module, paused)
}
