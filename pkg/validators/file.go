// Package validators holds request validation shared between handlers
package validators

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file provided")
)

const maxFileNameSize = 255

// FileValidator runs the cheap per-file checks that only need the
// multipart header. Content-type checks happen later, once the bytes are
// in memory.
func FileValidator(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return ErrFileNameTooLong
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return ErrFileTooLarge
	}

	return nil
}

// ResolveMediaType returns the effective MIME type of an upload: the
// declared header when present, otherwise a sniff of the actual bytes.
func ResolveMediaType(fh *multipart.FileHeader, data []byte) string {
	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	return mimetype.Detect(data).String()
}

// AllowedMediaType checks the MIME type against the configured prefix
// allowlist (image/, video/ by default).
func AllowedMediaType(mime string) bool {
	for _, prefix := range viper.GetStringSlice("upload.allowed_types") {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}

	return false
}
