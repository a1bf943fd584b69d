package leads

import "errors"

// Sentinel errors for the leads service layer.
var (
	ErrNotFound        = errors.New("lead not found")
	ErrRemapDisabled   = errors.New("remap function endpoint is not configured")
	ErrNothingToRemap  = errors.New("no unmapped leads")
	ErrInvalidMapping  = errors.New("mapping references unknown lead")
)
