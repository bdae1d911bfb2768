package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/youruser/eidqr/internal/errors"
)

func TestRespondError_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   apperr.Code
	}{
		{"cancelled export", apperr.Wrap(apperr.ErrCodeCanceled, context.Canceled, "export cancelled"), statusClientClosed, apperr.ErrCodeCanceled},
		{"bare cancellation", fmt.Errorf("render: %w", context.Canceled), statusClientClosed, apperr.ErrCodeCanceled},
		{"busy", apperr.New(apperr.ErrCodeBusy, "busy"), http.StatusConflict, apperr.ErrCodeBusy},
		{"uncoded", errors.New("boom"), http.StatusInternalServerError, apperr.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Error struct {
					Code apperr.Code `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}
