package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh entry identifier: an underscore followed by
// sixteen hex digits taken from a random (v4) UUID.
func NewID() string {
	return "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
