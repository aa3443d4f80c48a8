package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

// CreateComplaintRequest represents the request body for filing a complaint
type CreateComplaintRequest struct {
	UserID      string `json:"user_id" binding:"omitempty,max=128"`
	Category    string `json:"category" binding:"required,max=100"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,complaint_priority"`
}

// UpdateComplaintRequest is a partial update; omitted fields are left as they are
type UpdateComplaintRequest struct {
	Status        *string `json:"status" binding:"omitempty,complaint_status"`
	Priority      *string `json:"priority" binding:"omitempty,complaint_priority"`
	AssignedStaff *string `json:"assigned_staff" binding:"omitempty,max=128"`
}

// ComplaintQuery holds the list filters accepted by GET /api/complaints
type ComplaintQuery struct {
	Status        string `form:"status" json:"status" binding:"omitempty,complaint_status"`
	Priority      string `form:"priority" json:"priority" binding:"omitempty,complaint_priority"`
	AssignedStaff string `form:"assigned_staff" json:"assigned_staff"`
	UserID        string `form:"user_id" json:"user_id"`
	Category      string `form:"category" json:"category"`
}

type ComplaintController struct {
	complaints *services.ComplaintService
}

func NewComplaintController(complaints *services.ComplaintService) *ComplaintController {
	return &ComplaintController{complaints: complaints}
}

// Create handles POST /api/complaints
func (ctl *ComplaintController) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	complaint, err := ctl.complaints.Create(c.Request.Context(), cl, services.CreateComplaintInput{
		UserID:      req.UserID,
		Category:    req.Category,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Complaint created successfully", complaint)
}

// List handles GET /api/complaints
func (ctl *ComplaintController) List(c *gin.Context) {
	var q ComplaintQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	p := page(c)
	complaints, total, err := ctl.complaints.List(c.Request.Context(), p, repositories.ComplaintFilters{
		Status:        q.Status,
		Priority:      q.Priority,
		AssignedStaff: q.AssignedStaff,
		UserID:        q.UserID,
		Category:      q.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, complaints, response.NewPagination(p.Number, p.Size, total))
}

// ListByUser handles GET /api/complaints/user/:userId
func (ctl *ComplaintController) ListByUser(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	complaints, err := ctl.complaints.ListByUser(c.Request.Context(), cl, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, complaints)
}

// Get handles GET /api/complaints/:id
func (ctl *ComplaintController) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	complaint, err := ctl.complaints.Get(c.Request.Context(), cl, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, complaint)
}

// Update handles PATCH and PUT /api/complaints/:id. An empty body changes nothing and is a 404.
func (ctl *ComplaintController) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, middleware.BindingError(err))
		return
	}

	complaint, err := ctl.complaints.Update(c.Request.Context(), cl, id, repositories.ComplaintChanges{
		Status:        req.Status,
		Priority:      req.Priority,
		AssignedStaff: req.AssignedStaff,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Complaint updated successfully", complaint)
}

// Delete handles DELETE /api/complaints/:id
func (ctl *ComplaintController) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctl.complaints.Delete(c.Request.Context(), cl, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Complaint deleted successfully", nil)
}
