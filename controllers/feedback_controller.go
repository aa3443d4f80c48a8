package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

// CreateFeedbackRequest represents the request body for rating a resolved complaint
type CreateFeedbackRequest struct {
	ComplaintID uint    `json:"complaint_id" binding:"required"`
	Rating      int     `json:"rating" binding:"required,min=1,max=5"`
	Comments    *string `json:"comments" binding:"omitempty,max=2000"`
}

type FeedbackController struct {
	feedback *services.FeedbackService
}

func NewFeedbackController(feedback *services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedback: feedback}
}

// Create handles POST /api/feedback
func (ctl *FeedbackController) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	feedback, err := ctl.feedback.Create(c.Request.Context(), cl, services.CreateFeedbackInput{
		ComplaintID: req.ComplaintID,
		Rating:      req.Rating,
		Comments:    req.Comments,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Feedback submitted successfully", feedback)
}

// GetByComplaint handles GET /api/feedback/:complaintId
func (ctl *FeedbackController) GetByComplaint(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		return
	}

	feedback, err := ctl.feedback.GetByComplaint(c.Request.Context(), cl, complaintID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, feedback)
}

// Average handles GET /api/feedback/average
func (ctl *FeedbackController) Average(c *gin.Context) {
	summary, err := ctl.feedback.AverageRating(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, summary)
}
