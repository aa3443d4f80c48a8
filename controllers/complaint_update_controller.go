package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

// CreateComplaintUpdateRequest represents the request body for recording a status change
type CreateComplaintUpdateRequest struct {
	ComplaintID uint    `json:"complaint_id" binding:"required"`
	UpdatedBy   string  `json:"updated_by" binding:"omitempty,max=128"`
	Status      string  `json:"status" binding:"required,complaint_status"`
	Comment     *string `json:"comment" binding:"required"` // may be empty, must be present
}

type ComplaintUpdateController struct {
	updates *services.ComplaintUpdateService
}

func NewComplaintUpdateController(updates *services.ComplaintUpdateService) *ComplaintUpdateController {
	return &ComplaintUpdateController{updates: updates}
}

// Create handles POST /api/complaint-updates
func (ctl *ComplaintUpdateController) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req CreateComplaintUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	update, err := ctl.updates.Create(c.Request.Context(), cl, services.CreateUpdateInput{
		ComplaintID: req.ComplaintID,
		UpdatedBy:   req.UpdatedBy,
		Status:      req.Status,
		Comment:     *req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Complaint update created successfully", update)
}

// ListByComplaint handles GET /api/complaint-updates/:complaintId
func (ctl *ComplaintUpdateController) ListByComplaint(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		return
	}

	updates, err := ctl.updates.ListByComplaint(c.Request.Context(), cl, complaintID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, updates)
}

// Latest handles GET /api/complaint-updates/:complaintId/latest
func (ctl *ComplaintUpdateController) Latest(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		return
	}

	update, err := ctl.updates.Latest(c.Request.Context(), cl, complaintID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, update)
}

// Delete handles DELETE /api/complaint-updates/:id
func (ctl *ComplaintUpdateController) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctl.updates.Delete(c.Request.Context(), cl, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Complaint update deleted successfully", nil)
}
