package utils

import (
	"github.com/google/uuid"
)

// NewID creates a new UUID string for activity identification
func NewID() string {
	return uuid.New().String()
}
