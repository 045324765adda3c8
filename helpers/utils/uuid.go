package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID returns a UUID v4 string, used as job ids.
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateShortID returns an 8-hex-char id for log correlation.
func GenerateShortID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
