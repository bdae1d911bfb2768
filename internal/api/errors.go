package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/youruser/eidqr/internal/errors"
)

// statusClientClosed is the nginx convention for a request the client
// abandoned.
const statusClientClosed = 499

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeUnsupportedType:
		return http.StatusUnsupportedMediaType
	case apperr.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperr.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperr.ErrCodeNotFound, apperr.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeMissingImages, apperr.ErrCodeEmptyCard:
		return http.StatusPreconditionFailed
	case apperr.ErrCodeBusy:
		return http.StatusConflict
	case apperr.ErrCodeShareAborted, apperr.ErrCodeCanceled:
		return statusClientClosed
	case apperr.ErrCodePlatformUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// respond writes body as JSON together with the request's notifications.
func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["notifications"] = recorder(c).Events()
	c.JSON(status, body)
}

func respondError(c *gin.Context, err error) {
	code := apperr.GetCode(err)
	switch {
	case code == "" && errors.Is(err, context.Canceled):
		code = apperr.ErrCodeCanceled
	case code == "":
		code = apperr.ErrCodeInternal
	}
	respond(c, statusFor(code), gin.H{
		"error": gin.H{"code": code, "message": apperr.UserMessage(err)},
	})
}
