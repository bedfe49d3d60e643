package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// AuthError reports a failed credential exchange with an identity provider
// or a remote session that could not be established.
type AuthError struct {
	Provider string
	Reason   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Provider, e.Reason)
}

// UpstreamError carries the status and raw body of a non-success response
// from an external API so handlers can relay both to the caller.
type UpstreamError struct {
	Service string
	Status  int
	Body    []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, string(e.Body))
}

// DateParseError reports a timestamp that could not be interpreted.
type DateParseError struct {
	Input string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("could not parse datetime %q", e.Input)
}

// HandleErrors is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details any) {
	Logger := GetLogger()
	Logger.Warn(message, zap.Any("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// UpstreamJSONError relays an external API failure to the caller, reusing the
// upstream status code and raw body where available. Other errors map to 502.
func UpstreamJSONError(c *gin.Context, message string, err error) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		c.JSON(upErr.Status, ErrorResponse{Message: message, Details: RawJSON(upErr.Body)})
		return
	}
	JSONError(c, http.StatusBadGateway, message, err.Error())
}

// RawJSON returns body as-is for JSON re-encoding when it already is valid
// JSON, and as a plain string otherwise.
func RawJSON(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
