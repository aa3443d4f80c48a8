package services

import (
	"context"

	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/logger"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"go.uber.org/zap"
)

// CreateAttachmentInput is attachment metadata for a file already uploaded by the client
type CreateAttachmentInput struct {
	ComplaintID uint
	FileName    string
	FileURL     string
	FileType    string
	FileSize    int64
}

// AttachmentService manages attachment metadata and the stored files behind it
type AttachmentService struct {
	attachments *repositories.AttachmentRepository
	complaints  *ComplaintService
	uploads     *UploadService // nil when no bucket is configured
	store       BlobStore      // nil when no bucket is configured
	log         *zap.Logger
}

func NewAttachmentService(attachments *repositories.AttachmentRepository, complaints *ComplaintService, store BlobStore, log *zap.Logger) *AttachmentService {
	s := &AttachmentService{
		attachments: attachments,
		complaints:  complaints,
		store:       store,
		log:         logger.WithComponent(log, "attachments"),
	}
	if store != nil {
		s.uploads = NewUploadService(store)
	}
	return s
}

// PrepareUpload issues a presigned upload URL for a file to attach to the complaint
func (s *AttachmentService) PrepareUpload(ctx context.Context, caller Caller, complaintID uint, fileName, fileType string, fileSize int64) (*UploadTarget, error) {
	if _, err := s.complaints.Accessible(ctx, caller, complaintID, policy.AttachmentCreate); err != nil {
		return nil, err
	}
	if s.uploads == nil {
		return nil, apperror.Internal("File uploads are not configured", nil)
	}
	return s.uploads.Prepare(ctx, complaintID, fileName, fileType, fileSize)
}

// Create records metadata for an uploaded file. Any content type is accepted; the image allow-list
// applies to upload URLs only.
func (s *AttachmentService) Create(ctx context.Context, caller Caller, input CreateAttachmentInput) (*models.Attachment, error) {
	if _, err := s.complaints.Accessible(ctx, caller, input.ComplaintID, policy.AttachmentCreate); err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		ComplaintID: input.ComplaintID,
		FileName:    input.FileName,
		FileURL:     input.FileURL,
		FileType:    input.FileType,
		FileSize:    input.FileSize,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperror.Database("Failed to create attachment", err)
	}

	s.log.Info("Attachment registered",
		zap.Uint("attachment_id", attachment.AttachmentID),
		zap.Uint("complaint_id", attachment.ComplaintID),
		zap.Int64("file_size", attachment.FileSize),
	)
	return attachment, nil
}

func (s *AttachmentService) ListByComplaint(ctx context.Context, caller Caller, complaintID uint) ([]models.Attachment, error) {
	if _, err := s.complaints.Accessible(ctx, caller, complaintID, policy.AttachmentRead); err != nil {
		return nil, err
	}
	attachments, err := s.attachments.FindByComplaintID(ctx, complaintID)
	if err != nil {
		return nil, apperror.Database("Failed to fetch attachments", err)
	}
	return attachments, nil
}

// Delete removes the attachment row and, when the file lives in our bucket, the stored object.
// Failing to remove the object is logged and does not fail the request.
func (s *AttachmentService) Delete(ctx context.Context, caller Caller, id uint) error {
	attachment, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return apperror.Database("Failed to delete attachment", err)
	}
	if attachment == nil {
		return apperror.NotFound("Attachment not found")
	}
	if _, err := s.complaints.Accessible(ctx, caller, attachment.ComplaintID, policy.AttachmentDelete); err != nil {
		return err
	}

	if err := s.attachments.Delete(ctx, id); err != nil {
		return apperror.Database("Failed to delete attachment", err)
	}

	if s.store != nil {
		if key, ok := s.store.KeyFromURL(attachment.FileURL); ok {
			if err := s.store.Delete(ctx, key); err != nil {
				s.log.Warn("Failed to delete attachment object", zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.log.Info("Attachment deleted", zap.Uint("attachment_id", id), zap.String("deleted_by", caller.UserID))
	return nil
}
