package database

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a prefixed row id, e.g. NewID("ch") -> "ch_<uuid>"
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String())
}
