package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/complaint-desk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiClient talks to a running server the way a front end would
type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

type apiResponse struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *apiClient) do(method, path string, body interface{}) apiResponse {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(c.token))
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (c *apiClient) decode(resp apiResponse, into interface{}) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(resp.Data, into), string(resp.Data))
}

func newClient(t *testing.T, server *httptest.Server, subject string) *apiClient {
	return &apiClient{t: t, server: server, token: testutil.SignToken(t, subject, subject+"@example.com")}
}

// TestComplaintLifecycleAcceptance walks a complaint from registration to feedback
func TestComplaintLifecycleAcceptance(t *testing.T) {
	app := newTestApp(t, nil)
	server := httptest.NewServer(app.router)
	defer server.Close()

	customer := newClient(t, server, "auth0|alice")
	staff := newClient(t, server, "auth0|sam")
	manager := newClient(t, server, "auth0|morgan")

	for _, reg := range []struct {
		client *apiClient
		id     string
		name   string
		role   string
	}{
		{customer, "auth0|alice", "Alice Customer", ""},
		{staff, "auth0|sam", "Sam Staff", "Staff"},
		{manager, "auth0|morgan", "Morgan Manager", "Manager"},
	} {
		resp := reg.client.do(http.MethodPost, "/api/users/register", map[string]string{
			"user_id":   reg.id,
			"full_name": reg.name,
			"email":     reg.id[len("auth0|"):] + "@example.com",
			"role":      reg.role,
		})
		require.Equal(t, http.StatusCreated, resp.Status, resp.Error.Message)
	}

	var me struct {
		Role string `json:"role"`
	}
	customer.decode(customer.do(http.MethodGet, "/api/users/me", nil), &me)
	assert.Equal(t, "Customer", me.Role)

	resp := customer.do(http.MethodPost, "/api/complaints", map[string]string{
		"user_id":     "auth0|alice",
		"category":    "Delivery",
		"description": "Parcel arrived damaged",
		"priority":    "High",
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Error.Message)
	var complaint struct {
		ComplaintID uint   `json:"complaint_id"`
		Status      string `json:"status"`
	}
	customer.decode(resp, &complaint)
	assert.Equal(t, "Pending", complaint.Status)
	complaintPath := fmt.Sprintf("/api/complaints/%d", complaint.ComplaintID)

	assert.Equal(t, http.StatusForbidden, customer.do(http.MethodGet, "/api/complaints", nil).Status)
	assert.Equal(t, http.StatusOK, staff.do(http.MethodGet, "/api/complaints?status=Pending", nil).Status)

	resp = staff.do(http.MethodPatch, complaintPath, map[string]string{"assigned_staff": "auth0|sam"})
	require.Equal(t, http.StatusOK, resp.Status, resp.Error.Message)

	resp = staff.do(http.MethodPost, "/api/complaint-updates", map[string]interface{}{
		"complaint_id": complaint.ComplaintID,
		"updated_by":   "auth0|sam",
		"status":       "Resolved",
		"comment":      "Replacement shipped",
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Error.Message)

	customer.decode(customer.do(http.MethodGet, complaintPath, nil), &complaint)
	assert.Equal(t, "Resolved", complaint.Status)

	var trail []struct {
		Status        string `json:"status"`
		UpdatedByName string `json:"updated_by_name"`
	}
	customer.decode(customer.do(http.MethodGet, fmt.Sprintf("/api/complaint-updates/%d", complaint.ComplaintID), nil), &trail)
	require.Len(t, trail, 1)
	assert.Equal(t, "Sam Staff", trail[0].UpdatedByName)

	resp = customer.do(http.MethodPost, "/api/attachments/upload-url", map[string]interface{}{
		"complaint_id": complaint.ComplaintID,
		"file_name":    "box.jpg",
		"file_type":    "image/jpeg",
		"file_size":    1024,
	})
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "File uploads are not configured", resp.Error.Message)

	feedback := map[string]interface{}{"complaint_id": complaint.ComplaintID, "rating": 5, "comments": "Great service"}
	resp = customer.do(http.MethodPost, "/api/feedback", feedback)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Error.Message)

	resp = customer.do(http.MethodPost, "/api/feedback", feedback)
	assert.Equal(t, http.StatusConflict, resp.Status)
	assert.Equal(t, "Feedback already exists for this complaint", resp.Error.Message)

	assert.Equal(t, http.StatusForbidden, customer.do(http.MethodGet, "/api/feedback/average", nil).Status)

	var summary struct {
		Average float64 `json:"average_rating"`
		Total   int64   `json:"total_feedback"`
	}
	manager.decode(manager.do(http.MethodGet, "/api/feedback/average", nil), &summary)
	assert.Equal(t, int64(1), summary.Total)
	assert.InDelta(t, 5.0, summary.Average, 0.001)

	resp = customer.do(http.MethodDelete, complaintPath, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	resp = customer.do(http.MethodGet, complaintPath, nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.False(t, resp.Success)
}

// TestRegistrationTokenMustMatchAcceptance checks that a token cannot register someone else
func TestRegistrationTokenMustMatchAcceptance(t *testing.T) {
	app := newTestApp(t, nil)
	server := httptest.NewServer(app.router)
	defer server.Close()

	mallory := newClient(t, server, "auth0|mallory")
	resp := mallory.do(http.MethodPost, "/api/users/register", map[string]string{
		"user_id":   "auth0|victim",
		"full_name": "Victim",
		"email":     "victim@example.com",
	})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	anonymous := &apiClient{t: t, server: server}
	resp = anonymous.do(http.MethodPost, "/api/users/register", map[string]string{
		"user_id":   "auth0|walkin",
		"full_name": "Walk In",
		"email":     "walkin@example.com",
	})
	assert.Equal(t, http.StatusCreated, resp.Status)
}
