package domain

import "errors"

// ErrDuplicateVersion is returned when a second "original" version is
// created for the same document.
var ErrDuplicateVersion = errors.New("duplicate version")
