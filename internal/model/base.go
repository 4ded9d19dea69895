package model

import (
	"github.com/google/uuid"
)

// ensureID assigns a fresh UUID when id is still zero. IDs are generated in Go
// rather than by a column default so every supported driver behaves the same.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
