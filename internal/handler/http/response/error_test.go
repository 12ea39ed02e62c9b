package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "clock_in", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("submit: %w", validator.ValidationErrors{{Field: "memo", Message: "required"}}), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", user.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"attendance missing", attendance.ErrAttendanceNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"request missing", fmt.Errorf("approve: %w", correction.ErrRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"pending exists", correction.ErrPendingRequestExists, http.StatusConflict, "CONFLICT"},
		{"open breaks", correction.ErrMultipleOpenBreaks, http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "clock_in", Message: "clock_in must be before clock_out"},
	})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"clock_in": "clock_in must be before clock_out"}, body.Error.Details)
}
