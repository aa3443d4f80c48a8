package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/controllers"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/policy"
	"github.com/kendall-kelly/complaint-desk-api/repositories"
	"github.com/kendall-kelly/complaint-desk-api/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router needs. Build it once at startup with NewDeps.
type Deps struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Gate        *policy.Gate
	Verifier    services.IdentityVerifier
	Limiter     services.RateLimiter // nil disables rate limiting
	CORSOrigins []string

	Users       *services.UserService
	Complaints  *services.ComplaintService
	Updates     *services.ComplaintUpdateService
	Attachments *services.AttachmentService
	Feedback    *services.FeedbackService
}

// NewDeps wires repositories and services over db. store may be nil when no bucket is configured.
func NewDeps(db *gorm.DB, log *zap.Logger, verifier services.IdentityVerifier, store services.BlobStore, limiter services.RateLimiter) Deps {
	gate := policy.Default()

	users := repositories.NewUserRepository(db)
	complaints := services.NewComplaintService(repositories.NewComplaintRepository(db), users, gate, log)

	return Deps{
		DB:          db,
		Log:         log,
		Gate:        gate,
		Verifier:    verifier,
		Limiter:     limiter,
		Users:       services.NewUserService(users, gate, log),
		Complaints:  complaints,
		Updates:     services.NewComplaintUpdateService(repositories.NewComplaintUpdateRepository(db), complaints, gate, log),
		Attachments: services.NewAttachmentService(repositories.NewAttachmentRepository(db), complaints, store, log),
		Feedback:    services.NewFeedbackService(repositories.NewFeedbackRepository(db), complaints, gate, log),
	}
}

// Setup builds the gin engine with the middleware stack and every /api route
func Setup(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(d.Log),
		middleware.Logging(),
		middleware.Metrics(),
	)
	if len(d.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(notFound)

	sys := &systemHandlers{db: d.DB}
	users := controllers.NewUserController(d.Users)
	complaints := controllers.NewComplaintController(d.Complaints)
	updates := controllers.NewComplaintUpdateController(d.Updates)
	attachments := controllers.NewAttachmentController(d.Attachments)
	feedback := controllers.NewFeedbackController(d.Feedback)

	api := router.Group("/api")
	if d.Limiter != nil {
		api.Use(middleware.RateLimit(d.Limiter, services.GeneralRateLimit))
	}

	api.GET("/health", sys.health)
	api.GET("/database/status", sys.databaseStatus)

	register := []gin.HandlerFunc{middleware.OptionalIdentity(d.Verifier), users.Register}
	if d.Limiter != nil {
		register = append([]gin.HandlerFunc{middleware.RateLimit(d.Limiter, services.RegistrationRateLimit)}, register...)
	}
	api.POST("/users/register", register...)

	authed := api.Group("",
		middleware.RequireIdentity(d.Verifier),
		middleware.ResolveCaller(repositories.NewUserRepository(d.DB)),
	)
	allow := func(op policy.Operation) gin.HandlerFunc {
		return middleware.Authorize(d.Gate, op)
	}
	registered := middleware.Registered()

	userRoutes := authed.Group("/users")
	{
		userRoutes.GET("/me", users.Me)
		userRoutes.GET("/staff", allow(policy.UserListStaff), users.ListStaff)
		userRoutes.GET("", allow(policy.UserList), users.List)
		userRoutes.GET("/:id", allow(policy.UserReadSelf), users.Get)
		userRoutes.PATCH("/:id/role", allow(policy.UserChangeRole), users.UpdateRole)
		userRoutes.PUT("/:id/role", allow(policy.UserChangeRole), users.UpdateRole)
	}

	complaintRoutes := authed.Group("/complaints")
	{
		complaintRoutes.POST("", allow(policy.ComplaintCreate), complaints.Create)
		complaintRoutes.GET("", allow(policy.ComplaintListAll), complaints.List)
		complaintRoutes.GET("/user/:userId", registered, complaints.ListByUser)
		complaintRoutes.GET("/:id", registered, complaints.Get)
		complaintRoutes.PATCH("/:id", allow(policy.ComplaintUpdate), complaints.Update)
		complaintRoutes.PUT("/:id", allow(policy.ComplaintUpdate), complaints.Update)
		complaintRoutes.DELETE("/:id", registered, complaints.Delete)
	}

	updateRoutes := authed.Group("/complaint-updates")
	{
		updateRoutes.POST("", allow(policy.UpdateCreate), updates.Create)
		updateRoutes.GET("/:complaintId", allow(policy.UpdateRead), updates.ListByComplaint)
		updateRoutes.GET("/:complaintId/latest", allow(policy.UpdateRead), updates.Latest)
		updateRoutes.DELETE("/:id", registered, updates.Delete)
	}

	attachmentRoutes := authed.Group("/attachments")
	{
		attachmentRoutes.POST("/upload-url", allow(policy.AttachmentCreate), attachments.UploadURL)
		attachmentRoutes.POST("", allow(policy.AttachmentCreate), attachments.Create)
		attachmentRoutes.GET("/:complaintId", allow(policy.AttachmentRead), attachments.ListByComplaint)
		attachmentRoutes.DELETE("/:id", allow(policy.AttachmentDelete), attachments.Delete)
	}

	feedbackRoutes := authed.Group("/feedback")
	{
		feedbackRoutes.POST("", allow(policy.FeedbackCreate), feedback.Create)
		feedbackRoutes.GET("/average", allow(policy.FeedbackStats), feedback.Average)
		feedbackRoutes.GET("/:complaintId", allow(policy.FeedbackRead), feedback.GetByComplaint)
	}

	return router
}
