package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const contextAuthUserKey contextKey = "authUser"

// AuthUser is the identity resolved from a verified token, attached to the
// request context by RequireAuth.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func authUserFromContext(ctx context.Context) (AuthUser, error) {
	user, ok := ctx.Value(contextAuthUserKey).(AuthUser)
	if !ok || strings.TrimSpace(user.ID) == "" {
		return AuthUser{}, errors.New("missing identity")
	}
	return user, nil
}

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
