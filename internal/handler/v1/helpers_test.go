package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vihcare/vihcare/internal/domain/patient"
	"github.com/vihcare/vihcare/internal/service"
)

func TestRespondServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", patient.ErrPatientNotFound, http.StatusNotFound},
		{"duplicate cedula", patient.ErrPatientAlreadyExists, http.StatusConflict},
		{"evaluator conflict", patient.ErrEvaluatorConflict, http.StatusBadRequest},
		{"evaluator missing", patient.ErrEvaluatorMissing, http.StatusBadRequest},
		{"invalid scheme", patient.ErrInvalidEsquemaTAR, http.StatusBadRequest},
		{"pregnancy gate", patient.ErrPregnancyNotApplicable, http.StatusBadRequest},
		{"validation", &service.ValidationError{Fields: []string{"nombres is required"}}, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked", service.ErrAccountLocked, http.StatusTooManyRequests},
		{"unknown", http.ErrHandlerTimeout, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestValidationErrorResponseListsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, &service.ValidationError{Fields: []string{"nombres is required", "edad cannot be negative"}})

	body := w.Body.String()
	if !strings.Contains(body, "nombres is required") || !strings.Contains(body, "edad cannot be negative") {
		t.Errorf("body = %s", body)
	}
}

func TestUnknownErrorIsNotLeaked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, http.ErrHandlerTimeout)

	if strings.Contains(w.Body.String(), http.ErrHandlerTimeout.Error()) {
		t.Error("internal error details must not reach the client")
	}
}
