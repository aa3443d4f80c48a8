package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/middleware"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// caller returns the resolved caller or writes a 401 and returns false
func caller(c *gin.Context) (services.Caller, bool) {
	cl, err := middleware.GetCaller(c)
	if err != nil {
		response.Error(c, apperror.Unauthenticated("Could not extract user information", err))
		return services.Caller{}, false
	}
	return cl, true
}

// pathID parses a numeric path parameter, writing a 400 on failure
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperror.Validation("Invalid "+name, []services.FieldError{{
			Field:   name,
			Code:    "invalid",
			Message: name + " must be a positive integer",
		}}))
		return 0, false
	}
	return uint(id), true
}

// page reads ?page and ?pageSize. Missing or invalid values fall back to the defaults
// and pageSize is capped.
func page(c *gin.Context) services.Page {
	p := services.Page{Number: defaultPage, Size: defaultPageSize}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.Query("pageSize")); err == nil && n > 0 {
		p.Size = n
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}
