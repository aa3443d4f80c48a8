package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

// RegisterUserRequest represents the request body for registering a user
type RegisterUserRequest struct {
	UserID   string `json:"user_id" binding:"required,max=128"`
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"omitempty,user_role"`
}

// UpdateRoleRequest represents the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,user_role"`
}

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Register handles POST /api/users/register. A bearer token is optional; when one is sent its
// subject must equal user_id.
func (ctl *UserController) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	user, err := ctl.users.Register(c.Request.Context(), identity, services.RegisterInput{
		UserID:   req.UserID,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "User registered successfully", user)
}

// Me handles GET /api/users/me
func (ctl *UserController) Me(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	user, err := ctl.users.Me(c.Request.Context(), cl)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

// ListStaff handles GET /api/users/staff
func (ctl *UserController) ListStaff(c *gin.Context) {
	staff, err := ctl.users.ListStaff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, staff)
}

// Get handles GET /api/users/:id
func (ctl *UserController) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	user, err := ctl.users.GetByID(c.Request.Context(), cl, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

// List handles GET /api/users
func (ctl *UserController) List(c *gin.Context) {
	p := page(c)
	users, total, err := ctl.users.List(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, users, response.NewPagination(p.Number, p.Size, total))
}

// UpdateRole handles PATCH and PUT /api/users/:id/role
func (ctl *UserController) UpdateRole(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, middleware.BindingError(err))
		return
	}

	user, err := ctl.users.UpdateRole(c.Request.Context(), cl, c.Param("id"), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User role updated successfully", user)
}
