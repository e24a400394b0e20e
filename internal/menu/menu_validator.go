package menu

import (
	"errors"
	"path/filepath"
	"strings"
)

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var (
	ErrImageExtMissing = errors.New("file extension missing")
	ErrImageExtInvalid = errors.New("file type not allowed")
)

// ValidateImageExtension returns the normalised extension and its content
// type when filename names an accepted image format.
func ValidateImageExtension(filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return "", "", ErrImageExtMissing
	}

	contentType, ok := allowedImageExt[ext]
	if !ok {
		return "", "", ErrImageExtInvalid
	}

	return ext, contentType, nil
}
