package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"go.uber.org/zap"
)

// LoggerKey is the gin context key holding the request-scoped *zap.Logger
const LoggerKey = "logger"

// showInternalDetails controls whether 5xx causes are echoed to clients
var showInternalDetails = true

// SetProduction hides internal error causes from responses
func SetProduction(production bool) {
	showInternalDetails = !production
}

// Pagination is echoed with every paged list
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int64(0)
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OK writes a success envelope
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success":   true,
		"data":      data,
		"timestamp": timestamp(),
	})
}

// Message writes a success envelope with a message and optional data
func Message(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success":   true,
		"message":   message,
		"timestamp": timestamp(),
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// Paged writes a list with its pagination block
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
		"timestamp":  timestamp(),
	})
}

// Error maps err onto its status and error envelope. 5xx are logged at error, 4xx at warn.
func Error(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.HTTPStatus()

	log := Logger(c)
	fields := []zap.Field{
		zap.String("code", appErr.Code),
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if status >= http.StatusInternalServerError {
		log.Error(appErr.Message, append(fields, zap.Error(appErr.Err))...)
	} else {
		log.Warn(appErr.Message, fields...)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	} else if status >= http.StatusInternalServerError && showInternalDetails && appErr.Err != nil {
		body["details"] = appErr.Err.Error()
	}

	c.JSON(status, gin.H{
		"success":   false,
		"error":     body,
		"timestamp": timestamp(),
	})
}

// Abort writes the error envelope and stops the handler chain
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Logger returns the request-scoped logger, or the global logger outside a request chain
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.L()
}
