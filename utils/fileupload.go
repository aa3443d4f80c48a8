package utils

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// maxFileNameLength bounds the name kept in the object key
	maxFileNameLength = 100
)

// AllowedImageTypes are the MIME types accepted for complaint attachments
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateUploadMetadata checks the declared type and size of a file before it is uploaded or registered
func ValidateUploadMetadata(fileName, fileType string, fileSize int64) error {
	if strings.TrimSpace(fileName) == "" {
		return &FileUploadError{Code: "MISSING_FILE_NAME", Message: "File name is required"}
	}

	if fileSize <= 0 {
		return &FileUploadError{Code: "INVALID_FILE_SIZE", Message: "File size must be positive"}
	}
	if fileSize > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if !IsAllowedImageType(fileType) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedImageTypes, ", ")),
		}
	}

	return nil
}

// IsAllowedImageType reports whether contentType is an accepted image MIME type
func IsAllowedImageType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range AllowedImageTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName strips directories and characters that are awkward in object keys
func SanitizeFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	clean := strings.Trim(unsafeKeyChars.ReplaceAllString(base, "_"), "._")
	if clean == "" {
		clean = "file"
	}
	if len(clean) > maxFileNameLength {
		clean = clean[len(clean)-maxFileNameLength:]
	}
	return clean
}

// AttachmentObjectKey builds complaints/<complaint_id>/<unix>-<uuid>-<file_name>
func AttachmentObjectKey(complaintID uint, fileName string, now time.Time) string {
	return fmt.Sprintf("complaints/%d/%d-%s-%s", complaintID, now.Unix(), uuid.NewString(), SanitizeFileName(fileName))
}
