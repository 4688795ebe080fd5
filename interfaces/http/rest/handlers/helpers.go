package handlers

import (
	"errors"
	"net/http"

	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// maxBodyBytes caps JSON payloads; quiz content is the largest legitimate body
const maxBodyBytes = 1 << 20

// currentUser returns the authenticated caller
func currentUser(r *http.Request) (string, error) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		return "", pkgerrors.NewUnauthorizedError("authentication required")
	}
	return userID, nil
}

// decode parses the request body into v
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(w, r, v, maxBodyBytes); err != nil {
		return pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_BODY")
	}
	return nil
}

// decodeOptional is decode for endpoints whose body may be omitted
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := common.ParseJSONBody(w, r, v, maxBodyBytes)
	if err == nil || errors.Is(err, common.ErrEmptyBody) {
		return nil
	}
	return pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_BODY")
}
