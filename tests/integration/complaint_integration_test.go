package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/routes"
	"github.com/kendall-kelly/complaint-desk-api/services"
	"github.com/kendall-kelly/complaint-desk-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComplaintIntegrationTestSuite runs the full router against SQLite, HS256 tokens and a mock bucket
type ComplaintIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	blobs  *services.MockBlobStore
}

func (suite *ComplaintIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(middleware.RegisterValidators())
}

// SetupTest gives each test a fresh database and router
func (suite *ComplaintIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.blobs = services.NewMockBlobStore()

	deps := routes.NewDeps(suite.db, zap.NewNop(), services.NewHMACVerifier(testutil.TestJWTSecret), suite.blobs, services.NewMemoryRateLimiter())
	suite.router = routes.Setup(deps)

	testutil.SeedUser(suite.T(), suite.db, "auth0|customer", models.RoleCustomer)
	testutil.SeedUser(suite.T(), suite.db, "auth0|other", models.RoleCustomer)
	testutil.SeedUser(suite.T(), suite.db, "auth0|staff", models.RoleStaff)
	testutil.SeedUser(suite.T(), suite.db, "auth0|manager", models.RoleManager)
	testutil.SeedUser(suite.T(), suite.db, "auth0|admin", models.RoleAdmin)
}

type result struct {
	Code int
	Body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
}

func (suite *ComplaintIntegrationTestSuite) call(subject, method, path string, body interface{}) result {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(testutil.SignToken(suite.T(), subject, "")))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var r result
	r.Code = w.Code
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &r.Body), w.Body.String())
	return r
}

func (suite *ComplaintIntegrationTestSuite) createComplaint(owner string) uint {
	r := suite.call(owner, http.MethodPost, "/api/complaints", gin.H{"category": "Service", "description": "Rude agent"})
	suite.Require().Equal(http.StatusCreated, r.Code, r.Body.Error.Message)

	var complaint models.Complaint
	suite.Require().NoError(json.Unmarshal(r.Body.Data, &complaint))
	return complaint.ComplaintID
}

func (suite *ComplaintIntegrationTestSuite) status(id uint) string {
	var complaint models.Complaint
	suite.Require().NoError(suite.db.First(&complaint, id).Error)
	return complaint.Status
}

// TestCapabilityMatrix checks route-level capabilities per role
func (suite *ComplaintIntegrationTestSuite) TestCapabilityMatrix() {
	tests := []struct {
		subject string
		method  string
		path    string
		want    int
	}{
		{"auth0|customer", http.MethodGet, "/api/users", http.StatusForbidden},
		{"auth0|admin", http.MethodGet, "/api/users", http.StatusOK},
		{"auth0|customer", http.MethodGet, "/api/users/staff", http.StatusForbidden},
		{"auth0|staff", http.MethodGet, "/api/users/staff", http.StatusOK},
		{"auth0|customer", http.MethodGet, "/api/complaints", http.StatusForbidden},
		{"auth0|staff", http.MethodGet, "/api/complaints", http.StatusOK},
		{"auth0|staff", http.MethodGet, "/api/feedback/average", http.StatusForbidden},
		{"auth0|manager", http.MethodGet, "/api/feedback/average", http.StatusOK},
		{"auth0|admin", http.MethodGet, "/api/feedback/average", http.StatusOK},
		{"auth0|customer", http.MethodGet, "/api/users/auth0|other", http.StatusForbidden},
		{"auth0|admin", http.MethodGet, "/api/users/auth0|other", http.StatusOK},
	}

	for _, tt := range tests {
		suite.Run(fmt.Sprintf("%s %s %s", tt.subject, tt.method, tt.path), func() {
			r := suite.call(tt.subject, tt.method, tt.path, nil)
			suite.Equal(tt.want, r.Code, r.Body.Error.Message)
		})
	}
}

// TestStatusFollowsAuditTrail creates and deletes updates and checks the complaint status each time
func (suite *ComplaintIntegrationTestSuite) TestStatusFollowsAuditTrail() {
	id := suite.createComplaint("auth0|customer")
	suite.Equal(models.StatusPending, suite.status(id))

	var ids []uint
	for _, st := range []string{models.StatusInProgress, models.StatusResolved} {
		r := suite.call("auth0|staff", http.MethodPost, "/api/complaint-updates", gin.H{"complaint_id": id, "status": st, "comment": "step"})
		suite.Require().Equal(http.StatusCreated, r.Code, r.Body.Error.Message)
		var u models.ComplaintUpdate
		suite.Require().NoError(json.Unmarshal(r.Body.Data, &u))
		ids = append(ids, u.UpdateID)
		suite.Equal(st, suite.status(id))
	}

	// only the author or an admin may delete an update
	r := suite.call("auth0|manager", http.MethodDelete, fmt.Sprintf("/api/complaint-updates/%d", ids[1]), nil)
	suite.Equal(http.StatusForbidden, r.Code)

	r = suite.call("auth0|admin", http.MethodDelete, fmt.Sprintf("/api/complaint-updates/%d", ids[1]), nil)
	suite.Require().Equal(http.StatusOK, r.Code)
	suite.Equal(models.StatusInProgress, suite.status(id))

	r = suite.call("auth0|staff", http.MethodDelete, fmt.Sprintf("/api/complaint-updates/%d", ids[0]), nil)
	suite.Require().Equal(http.StatusOK, r.Code)
	suite.Equal(models.StatusPending, suite.status(id))
}

// TestCustomerIsolation checks that customers only reach their own complaint data
func (suite *ComplaintIntegrationTestSuite) TestCustomerIsolation() {
	id := suite.createComplaint("auth0|customer")

	for _, path := range []string{
		fmt.Sprintf("/api/complaints/%d", id),
		fmt.Sprintf("/api/complaint-updates/%d", id),
		fmt.Sprintf("/api/attachments/%d", id),
		fmt.Sprintf("/api/feedback/%d", id),
		"/api/complaints/user/auth0|customer",
	} {
		suite.Equal(http.StatusForbidden, suite.call("auth0|other", http.MethodGet, path, nil).Code, path)
	}

	suite.Equal(http.StatusOK, suite.call("auth0|staff", http.MethodGet, fmt.Sprintf("/api/complaints/%d", id), nil).Code)
	suite.Equal(http.StatusForbidden, suite.call("auth0|other", http.MethodDelete, fmt.Sprintf("/api/complaints/%d", id), nil).Code)
	suite.Equal(http.StatusForbidden, suite.call("auth0|staff", http.MethodDelete, fmt.Sprintf("/api/complaints/%d", id), nil).Code)
	suite.Equal(http.StatusOK, suite.call("auth0|manager", http.MethodDelete, fmt.Sprintf("/api/complaints/%d", id), nil).Code)
}

// TestAttachmentUploadThroughRouter runs the presign, register and delete flow against the mock bucket
func (suite *ComplaintIntegrationTestSuite) TestAttachmentUploadThroughRouter() {
	id := suite.createComplaint("auth0|customer")

	r := suite.call("auth0|customer", http.MethodPost, "/api/attachments/upload-url", gin.H{
		"complaint_id": id, "file_name": "../../etc/passwd.png", "file_type": "image/png", "file_size": 100,
	})
	suite.Require().Equal(http.StatusOK, r.Code, r.Body.Error.Message)
	var target services.UploadTarget
	suite.Require().NoError(json.Unmarshal(r.Body.Data, &target))
	suite.NotContains(target.ObjectKey, "..")
	suite.True(suite.blobs.Presigned(target.ObjectKey))

	r = suite.call("auth0|customer", http.MethodPost, "/api/attachments", gin.H{
		"complaint_id": id, "file_name": "passwd.png", "file_url": target.FileURL, "file_type": "image/png", "file_size": 100,
	})
	suite.Require().Equal(http.StatusCreated, r.Code, r.Body.Error.Message)
	var attachment models.Attachment
	suite.Require().NoError(json.Unmarshal(r.Body.Data, &attachment))

	r = suite.call("auth0|staff", http.MethodDelete, fmt.Sprintf("/api/attachments/%d", attachment.AttachmentID), nil)
	suite.Require().Equal(http.StatusOK, r.Code)
	suite.Equal([]string{target.ObjectKey}, suite.blobs.Deleted())
}

// TestRoleChange covers the admin-only role endpoint
func (suite *ComplaintIntegrationTestSuite) TestRoleChange() {
	r := suite.call("auth0|admin", http.MethodPut, "/api/users/auth0|customer/role", gin.H{"role": models.RoleStaff})
	suite.Require().Equal(http.StatusOK, r.Code, r.Body.Error.Message)

	r = suite.call("auth0|customer", http.MethodGet, "/api/complaints", nil)
	suite.Equal(http.StatusOK, r.Code, "the new role applies on the next request")

	r = suite.call("auth0|admin", http.MethodPatch, "/api/users/auth0|admin/role", gin.H{"role": models.RoleCustomer})
	suite.Equal(http.StatusForbidden, r.Code)
	suite.Equal("SELF_ROLE_CHANGE", r.Body.Error.Code)

	r = suite.call("auth0|manager", http.MethodPatch, "/api/users/auth0|other/role", gin.H{"role": models.RoleAdmin})
	suite.Equal(http.StatusForbidden, r.Code)
}

func TestComplaintIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ComplaintIntegrationTestSuite))
}
