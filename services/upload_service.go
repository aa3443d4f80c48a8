package services

import (
	"context"
	"time"

	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/utils"
)

// UploadURLExpiry is how long a presigned upload URL stays valid
const UploadURLExpiry = 15 * time.Minute

// UploadTarget tells the client where to PUT the file and which URL to register afterwards
type UploadTarget struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadService issues presigned upload URLs for complaint attachments
type UploadService struct {
	store BlobStore
	now   func() time.Time
}

func NewUploadService(store BlobStore) *UploadService {
	return &UploadService{store: store, now: time.Now}
}

// Prepare validates the declared file and returns a presigned PUT target under the complaint's prefix
func (s *UploadService) Prepare(ctx context.Context, complaintID uint, fileName, fileType string, fileSize int64) (*UploadTarget, error) {
	if err := ValidateUpload(fileName, fileType, fileSize); err != nil {
		return nil, err
	}

	now := s.now()
	key := utils.AttachmentObjectKey(complaintID, fileName, now)
	uploadURL, err := s.store.PresignPut(ctx, key, fileType, fileSize, UploadURLExpiry)
	if err != nil {
		return nil, apperror.Internal("Failed to generate upload URL", err)
	}

	return &UploadTarget{
		UploadURL: uploadURL,
		FileURL:   s.store.ObjectURL(key),
		ObjectKey: key,
		ExpiresAt: now.Add(UploadURLExpiry),
	}, nil
}

// ValidateUpload maps upload metadata errors onto a validation error with the field at fault
func ValidateUpload(fileName, fileType string, fileSize int64) error {
	err := utils.ValidateUploadMetadata(fileName, fileType, fileSize)
	if err == nil {
		return nil
	}
	uploadErr, ok := err.(*utils.FileUploadError)
	if !ok {
		return apperror.Validation(err.Error(), nil)
	}

	field := "file_type"
	switch uploadErr.Code {
	case "FILE_TOO_LARGE", "INVALID_FILE_SIZE":
		field = "file_size"
	case "MISSING_FILE_NAME":
		field = "file_name"
	}
	return apperror.Validation(uploadErr.Message, []FieldError{{Field: field, Code: uploadErr.Code, Message: uploadErr.Message}})
}
