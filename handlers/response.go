package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/logging"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type messageResponse struct {
	Message string `json:"message"`
}

type taskResponse struct {
	Message string `json:"message"`
	Task    any    `json:"task"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: %v", err)
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrInvalidArgument:
		return http.StatusBadRequest
	case apperrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	case status == http.StatusForbidden:
		logging.Logger.Warnf("Event ID: REQUEST_FORBIDDEN, Description: %s %s refused: %v", r.Method, r.URL.Path, err)
	default:
		logging.Logger.Infof("Event ID: REQUEST_REJECTED, Description: %s %s rejected: %v", r.Method, r.URL.Path, err)
	}

	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, status, messageResponse{Message: message})
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (primitive.ObjectID, error) {
	raw := mux.Vars(r)["id"]
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidArgument("invalid id %q", raw)
	}
	return id, nil
}

// decodeBody decodes the JSON request body into dst. Classified errors from
// custom decoders pass through unchanged.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.InvalidArgument("invalid request body")
	}
	return nil
}
