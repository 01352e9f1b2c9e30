package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/skillnotes/skillnotes-backend/internal/coupons"
	"github.com/skillnotes/skillnotes-backend/internal/notifications"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
	"github.com/skillnotes/skillnotes-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteResult is WriteSuccessStatus plus any notifications raised while
// handling the request.
func WriteResult(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data, Notifications: collected(ctx)})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		if rejection, ok := coupons.AsRejection(err); ok {
			typed = rejectionError(rejection)
		} else {
			typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
		}
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
		Notifications: collected(ctx),
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, dump.Fields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func rejectionError(rejection *coupons.RejectionError) *pkgerrors.Error {
	details := map[string]any{"reason": rejection.ReasonKey()}
	if rejection.Code != "" {
		details["code"] = rejection.Code
	}
	if rejection.MinimumOrder != nil {
		details["minimum_order"] = rejection.MinimumOrder.String()
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, rejection, rejection.Message()).WithDetails(details)
}

func collected(ctx context.Context) any {
	c, ok := notifications.FromContext(ctx)
	if !ok {
		return nil
	}
	messages := c.Messages()
	if len(messages) == 0 {
		return nil
	}
	return messages
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
