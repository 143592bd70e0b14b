package mockapi

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrCode identifies an API error independently of its message.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrResetTokenInvalid  ErrCode = "RESET_TOKEN_INVALID"

	// Authorization
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrWardenAccessOnly  ErrCode = "WARDEN_ACCESS_ONLY"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrConflict     ErrCode = "CONFLICT"
	ErrRoomOccupied ErrCode = "ROOM_OCCUPIED"

	// Server
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication required."
	case ErrTokenInvalid:
		return "Session token is invalid or expired."
	case ErrSessionInvalidated:
		return "Session has ended. Please log in again."
	case ErrResetTokenInvalid:
		return "Reset link is invalid or has already been used."

	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrStudentAccessOnly:
		return "This resource is for students only."
	case ErrWardenAccessOnly:
		return "This resource is for wardens only."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrRoomOccupied:
		return "Room still has occupants."

	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}

// errorBody is the shape the portal's client reads: {"error": ..., "code": ...}.
type errorBody struct {
	Error  string            `json:"error"`
	Code   ErrCode           `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func fail(c *gin.Context, status int, code ErrCode) {
	c.JSON(status, errorBody{Error: GetMessage(code), Code: code})
}

func failWithFields(c *gin.Context, status int, code ErrCode, fields map[string]string) {
	c.JSON(status, errorBody{Error: GetMessage(code), Code: code, Fields: fields})
}

func abortFail(c *gin.Context, status int, code ErrCode) {
	c.AbortWithStatusJSON(status, errorBody{Error: GetMessage(code), Code: code})
}

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware echoes X-Request-ID or mints one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
