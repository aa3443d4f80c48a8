package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"github.com/kendall-kelly/complaint-desk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFeedback(t *testing.T) {
	app := newTestApp(t)
	auth := app.seedCaller(t, "cust-1", models.RoleCustomer)
	complaint := seedComplaint(t, app, "cust-1")

	router := setupTestRouter()
	router.POST("/api/feedback", auth, app.feedback.Create)
	router.GET("/api/feedback/:complaintId", auth, app.feedback.GetByComplaint)

	path := fmt.Sprintf("/api/feedback/%d", complaint.ComplaintID)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, path, nil).Code)

	w := doJSON(router, http.MethodPost, "/api/feedback", gin.H{
		"complaint_id": complaint.ComplaintID,
		"rating":       4,
		"comments":     "Sorted quickly",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var feedback models.Feedback
	parseData(t, w, &feedback)
	assert.Equal(t, 4, feedback.Rating)

	w = doJSON(router, http.MethodPost, "/api/feedback", gin.H{"complaint_id": complaint.ComplaintID, "rating": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	env := parse(t, w)
	assert.Equal(t, "RESOURCE_CONFLICT", env.Error.Code)
	assert.Equal(t, "Feedback already exists for this complaint", env.Error.Message)

	var stored models.Feedback
	parseData(t, doJSON(router, http.MethodGet, path, nil), &stored)
	assert.Equal(t, 4, stored.Rating)
	require.NotNil(t, stored.Comments)
	assert.Equal(t, "Sorted quickly", *stored.Comments)
}

func TestCreateFeedback_Rejections(t *testing.T) {
	app := newTestApp(t)
	testutil.SeedUser(t, app.db, "cust-2", models.RoleCustomer)
	auth := app.seedCaller(t, "cust-1", models.RoleCustomer)
	own := seedComplaint(t, app, "cust-1")
	other := seedComplaint(t, app, "cust-2")

	customer := setupTestRouter()
	customer.POST("/api/feedback", auth, app.feedback.Create)

	staff := setupTestRouter()
	staff.POST("/api/feedback", app.seedCaller(t, "staff-1", models.RoleStaff), app.feedback.Create)

	tests := []struct {
		name   string
		router *gin.Engine
		body   gin.H
		want   int
	}{
		{"rating too high", customer, gin.H{"complaint_id": own.ComplaintID, "rating": 6}, http.StatusBadRequest},
		{"rating zero", customer, gin.H{"complaint_id": own.ComplaintID, "rating": 0}, http.StatusBadRequest},
		{"not owner", customer, gin.H{"complaint_id": other.ComplaintID, "rating": 5}, http.StatusForbidden},
		{"staff", staff, gin.H{"complaint_id": own.ComplaintID, "rating": 5}, http.StatusForbidden},
		{"missing complaint", customer, gin.H{"complaint_id": 9999, "rating": 5}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(tt.router, http.MethodPost, "/api/feedback", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	var count int64
	app.db.Model(&models.Feedback{}).Count(&count)
	assert.Zero(t, count)
}

func TestAverageRating(t *testing.T) {
	app := newTestApp(t)
	testutil.SeedUser(t, app.db, "cust-1", models.RoleCustomer)
	router := setupTestRouter()
	router.GET("/api/feedback/average", app.feedback.Average)

	var summary repositories.RatingSummary
	parseData(t, doJSON(router, http.MethodGet, "/api/feedback/average", nil), &summary)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Average)

	for _, rating := range []int{5, 4, 3} {
		c := seedComplaint(t, app, "cust-1")
		require.NoError(t, app.db.Create(&models.Feedback{ComplaintID: c.ComplaintID, Rating: rating}).Error)
	}

	parseData(t, doJSON(router, http.MethodGet, "/api/feedback/average", nil), &summary)
	assert.Equal(t, int64(3), summary.Count)
	assert.InDelta(t, 4.0, summary.Average, 0.001)
}
