package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppError carries the HTTP status a service failure should surface with.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// BadRequest covers validation and referential-integrity failures
func BadRequest(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

// Internal wraps an unexpected error; the wrapped text is logged, never returned to clients.
func Internal(msg string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// IsNotFound reports whether err is gorm's missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===========================
// 📦 Envelope helpers

// RespondOK writes {success:true, ...payload}
func RespondOK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// RespondError writes {success:false, error} using the status carried by an *AppError.
// Anything else is treated as an unexpected failure.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(appErr.Status, gin.H{"success": false, "error": appErr.Message})
		return
	}

	log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Ocurrió un error en el servidor."})
}
