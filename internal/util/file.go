package util

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueFilename keeps the extension of the original name and replaces the rest with a uuid
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return uuid.NewString() + ext
}
