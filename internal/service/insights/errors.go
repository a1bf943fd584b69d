package insights

import "errors"

// Sentinel errors for the insights service layer.
var (
	ErrNotFound = errors.New("campaign not found")
)
