package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(t.Context(), rec, http.StatusOK, map[string]string{"status": "ok"})

	var body envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if rec.Code != http.StatusOK || body.APIVersion != "2.0" || body.Data == nil || body.Error != nil {
		t.Fatalf("unexpected success envelope code=%d body=%+v", rec.Code, body)
	}
}

func TestWriteError_Classification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{"invalid input", fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"unknown race", fmt.Errorf("%w: race GIRO_1999", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "notFound"},
		{"configuration", resultError{sentinel: usecase.ErrConfiguration, msg: "race_key is required"}, http.StatusBadRequest, "FAILED_PRECONDITION", "invalidConfiguration"},
		{"provider down", fmt.Errorf("%w: circuit open", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
		{"stage failed", fmt.Errorf("%w: matching", usecase.ErrStageFailed), http.StatusInternalServerError, "INTERNAL", "pipelineFailed"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "INTERNAL", "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(t.Context(), rec, tt.err)

			var body envelope
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if rec.Code != tt.wantCode || body.Error == nil {
				t.Fatalf("expected %d with error body, got %d %+v", tt.wantCode, rec.Code, body)
			}
			if body.Error.Status != tt.wantStatus || len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != tt.wantReason {
				t.Fatalf("unexpected error body %+v", body.Error)
			}
			if body.Error.Message != tt.err.Error() {
				t.Fatalf("expected message %q, got %q", tt.err.Error(), body.Error.Message)
			}
		})
	}
}

func TestWriteInternalError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeInternalError(t.Context(), rec)

	var body envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if rec.Code != http.StatusInternalServerError || body.Error.Message != "internal server error" {
		t.Fatalf("unexpected internal error response %d %+v", rec.Code, body.Error)
	}
}
