package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"github.com/kendall-kelly/complaint-desk-api/services"
	"github.com/kendall-kelly/complaint-desk-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testApp struct {
	db          *gorm.DB
	blobs       *services.MockBlobStore
	users       *UserController
	complaints  *ComplaintController
	updates     *ComplaintUpdateController
	attachments *AttachmentController
	feedback    *FeedbackController
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	require.NoError(t, middleware.RegisterValidators())

	db := testutil.NewTestDB(t)
	gate := policy.Default()
	log := zap.NewNop()
	blobs := services.NewMockBlobStore()

	userRepo := repositories.NewUserRepository(db)
	complaintSvc := services.NewComplaintService(repositories.NewComplaintRepository(db), userRepo, gate, log)

	return &testApp{
		db:          db,
		blobs:       blobs,
		users:       NewUserController(services.NewUserService(userRepo, gate, log)),
		complaints:  NewComplaintController(complaintSvc),
		updates:     NewComplaintUpdateController(services.NewComplaintUpdateService(repositories.NewComplaintUpdateRepository(db), complaintSvc, gate, log)),
		attachments: NewAttachmentController(services.NewAttachmentService(repositories.NewAttachmentRepository(db), complaintSvc, blobs, log)),
		feedback:    NewFeedbackController(services.NewFeedbackService(repositories.NewFeedbackRepository(db), complaintSvc, gate, log)),
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// mockAuthMiddleware sets the context the same way RequireIdentity and ResolveCaller do
func mockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("identity", &services.Identity{Subject: userID})
		c.Set("caller", services.Caller{UserID: userID, Role: role})
		c.Next()
	}
}

// seedCaller inserts the user and returns middleware authenticating as them
func (a *testApp) seedCaller(t *testing.T, userID, role string) gin.HandlerFunc {
	t.Helper()
	testutil.SeedUser(t, a.db, userID, role)
	return mockAuthMiddleware(userID, role)
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Page       int   `json:"page"`
		PageSize   int   `json:"pageSize"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"totalPages"`
	} `json:"pagination"`
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
}

func parse(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func parseData(t *testing.T, w *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	env := parse(t, w)
	require.NoError(t, json.Unmarshal(env.Data, into), string(env.Data))
	return env
}

func seedComplaint(t *testing.T, a *testApp, owner string) *models.Complaint {
	t.Helper()
	return testutil.SeedComplaint(t, a.db, owner, "Billing")
}
