package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

// UploadURLRequest describes a file the client is about to upload
type UploadURLRequest struct {
	ComplaintID uint   `json:"complaint_id" binding:"required"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	FileType    string `json:"file_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// CreateAttachmentRequest registers a file that has already been uploaded
type CreateAttachmentRequest struct {
	ComplaintID uint   `json:"complaint_id" binding:"required"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	FileURL     string `json:"file_url" binding:"required,url"`
	FileType    string `json:"file_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

type AttachmentController struct {
	attachments *services.AttachmentService
}

func NewAttachmentController(attachments *services.AttachmentService) *AttachmentController {
	return &AttachmentController{attachments: attachments}
}

// UploadURL handles POST /api/attachments/upload-url
func (ctl *AttachmentController) UploadURL(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	target, err := ctl.attachments.PrepareUpload(c.Request.Context(), cl, req.ComplaintID, req.FileName, req.FileType, req.FileSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, target)
}

// Create handles POST /api/attachments
func (ctl *AttachmentController) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	attachment, err := ctl.attachments.Create(c.Request.Context(), cl, services.CreateAttachmentInput{
		ComplaintID: req.ComplaintID,
		FileName:    req.FileName,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Attachment created successfully", attachment)
}

// ListByComplaint handles GET /api/attachments/:complaintId
func (ctl *AttachmentController) ListByComplaint(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		return
	}

	attachments, err := ctl.attachments.ListByComplaint(c.Request.Context(), cl, complaintID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, attachments)
}

// Delete handles DELETE /api/attachments/:id
func (ctl *AttachmentController) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctl.attachments.Delete(c.Request.Context(), cl, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Attachment deleted successfully", nil)
}
