package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "fantasy-cycling"
)

// envelope follows the Google JSON style guide: exactly one of data or
// error is set.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Status  string       `json:"status"`
	Errors  []errorCause `json:"errors,omitempty"`
}

type errorCause struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	sentinel   error
	httpStatus int
	status     string
	reason     string
}

// errorClasses is checked in order; the first sentinel found in the chain wins.
var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
	{usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "notFound"},
	{usecase.ErrConfiguration, http.StatusBadRequest, "FAILED_PRECONDITION", "invalidConfiguration"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
	{usecase.ErrStageFailed, http.StatusInternalServerError, "INTERNAL", "pipelineFailed"},
}

var internalErrorClass = errorClass{httpStatus: http.StatusInternalServerError, status: "INTERNAL", reason: "internalError"}

func classifyError(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.sentinel) {
			return class
		}
	}
	return internalErrorClass
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	if class.httpStatus >= http.StatusInternalServerError {
		markSpanError(ctx, err)
	}
	writeJSON(w, class.httpStatus, errorEnvelope(class, err.Error()))
}

// writeInternalError answers 500 without echoing the cause to the client.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	const msg = "internal server error"
	markSpanError(ctx, errors.New(msg))
	writeJSON(w, http.StatusInternalServerError, errorEnvelope(internalErrorClass, msg))
}

func errorEnvelope(class errorClass, msg string) envelope {
	return envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: msg,
			Status:  class.status,
			Errors:  []errorCause{{Domain: errorDomain, Reason: class.reason, Message: msg}},
		},
	}
}
