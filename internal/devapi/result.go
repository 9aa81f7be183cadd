package devapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"routehub-client/internal/response"
)

// BaseResult is the envelope every endpoint responds with
type BaseResult struct {
	Data          interface{}             `json:"data"`
	IsSuccess     bool                    `json:"isSuccess"`
	StatusCode    int                     `json:"statusCode"`
	ErrorMessages []string                `json:"errorMessages,omitempty"`
	Messages      []response.FieldMessage `json:"messages,omitempty"`
}

// SendSuccess writes data in a successful envelope
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, BaseResult{
		Data:       data,
		IsSuccess:  true,
		StatusCode: statusCode,
	})
}

// SendError writes a failed envelope with plain error messages
func SendError(c *gin.Context, statusCode int, messages ...string) {
	c.JSON(statusCode, BaseResult{
		IsSuccess:     false,
		StatusCode:    statusCode,
		ErrorMessages: messages,
	})
}

// SendFieldErrors writes a failed envelope with property-scoped messages
func SendFieldErrors(c *gin.Context, statusCode int, messages []response.FieldMessage) {
	c.JSON(statusCode, BaseResult{
		IsSuccess:  false,
		StatusCode: statusCode,
		Messages:   messages,
	})
}

// abortError is SendError for middleware
func abortError(c *gin.Context, statusCode int, message string) {
	SendError(c, statusCode, message)
	c.Abort()
}

// handleBindError reports request binding failures as field messages
func handleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	msgs := make([]response.FieldMessage, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, response.FieldMessage{
			PropertyName: lowerFirst(fe.Field()),
			Message:      fieldMessage(fe),
		})
	}
	SendFieldErrors(c, http.StatusBadRequest, msgs)
}

func fieldMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "email":
		return name + " must be a valid email address"
	default:
		return name + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// handleServiceError maps service layer errors to envelope responses
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		SendError(c, http.StatusNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		statusCode := mapErrorCodeToHTTPStatus(appErr.Code)
		if statusCode >= http.StatusInternalServerError {
			logger.Error("Service error",
				zap.String("code", appErr.Code),
				zap.String("message", appErr.Message),
				zap.String("details", appErr.Details),
			)
		}
		SendError(c, statusCode, appErr.Message)
		return
	}

	logger.Error("Unhandled service error", zap.Error(err))
	SendError(c, http.StatusInternalServerError, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeConflict:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
