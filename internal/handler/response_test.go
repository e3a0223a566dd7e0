package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studyquest/internal/apperror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantType    string
		wantMessage string
	}{
		{"validation", apperror.ValidationFailed("date", "date is required"), http.StatusBadRequest, "validation_error", "date is required"},
		{"conflict", apperror.Conflict("email"), http.StatusBadRequest, "conflict", "email is already in use"},
		{"unauthorized", apperror.Unauthorized("invalid email or password"), http.StatusUnauthorized, "unauthorized", "invalid email or password"},
		{"not found", apperror.NotFound("task", "abc"), http.StatusNotFound, "not_found", "task not found with id abc"},
		{"wrapped", fmt.Errorf("service/task: %w", apperror.NotFound("task", "abc")), http.StatusNotFound, "not_found", "task not found with id abc"},
		{"unknown", errors.New("sqlite: disk I/O error at /var/lib/db"), http.StatusInternalServerError, "internal_error", "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantType, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type target struct {
		TaskTypeID int64  `json:"task_type_id"`
		Date       string `json:"date"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{"valid", `{"task_type_id": 1, "date": "2026-10-17"}`, false, ""},
		{"empty body", ``, true, "body"},
		{"malformed", `{"task_type_id": `, true, "body"},
		{"wrong type", `{"task_type_id": "one"}`, true, "task_type_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst target
			err := decodeJSON(httptest.NewRecorder(), req, &dst)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, int64(1), dst.TaskTypeID)
				return
			}
			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}
