package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/auth"
	"wholesale-be/internal/logger"

	"go.uber.org/zap"
)

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err with its taxonomy code. Storage faults are logged and
// reported generically. Account-status denials also end the caller's session.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(apperror.KindPersistence, "internal server error", err)
	}

	body := ErrorBody{
		Code:    string(appErr.Kind),
		Message: appErr.PublicMessage(),
	}
	if apperror.TerminatesSession(appErr) {
		auth.TerminateSession(w)
	}
	if appErr.Kind == apperror.KindPersistence {
		logger.FromCtx(ctx).Error("request failed", zap.Error(err))
	} else {
		body.Details = appErr.Details
	}

	WriteJSON(w, appErr.HTTPCode(), ErrorResponse{Error: body, RequestID: logger.RequestIDFrom(ctx)})
}
