package services

import (
	"testing"

	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/models"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"github.com/kendall-kelly/complaint-desk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db          *gorm.DB
	blobs       *MockBlobStore
	users       *UserService
	complaints  *ComplaintService
	updates     *ComplaintUpdateService
	attachments *AttachmentService
	feedback    *FeedbackService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	gate := policy.Default()
	log := zap.NewNop()
	blobs := NewMockBlobStore()

	userRepo := repositories.NewUserRepository(db)
	complaints := NewComplaintService(repositories.NewComplaintRepository(db), userRepo, gate, log)

	return &harness{
		db:          db,
		blobs:       blobs,
		users:       NewUserService(userRepo, gate, log),
		complaints:  complaints,
		updates:     NewComplaintUpdateService(repositories.NewComplaintUpdateRepository(db), complaints, gate, log),
		attachments: NewAttachmentService(repositories.NewAttachmentRepository(db), complaints, blobs, log),
		feedback:    NewFeedbackService(repositories.NewFeedbackRepository(db), complaints, gate, log),
	}
}

// caller seeds a user with role and returns it as a Caller
func (h *harness) caller(t *testing.T, userID, role string) Caller {
	t.Helper()
	testutil.SeedUser(t, h.db, userID, role)
	return Caller{UserID: userID, Role: role}
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, kind), "expected kind %d, got %v", kind, err)
}

func seedOwnedComplaint(t *testing.T, h *harness, owner Caller) *models.Complaint {
	t.Helper()
	return testutil.SeedComplaint(t, h.db, owner.UserID, "Billing")
}
