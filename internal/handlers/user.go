package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/certfolio/apiserver/internal/services"
	"github.com/certfolio/apiserver/internal/store"
	"github.com/certfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler provides profile endpoints. The password hash never appears in
// responses; types.User hides it at the JSON layer.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers profile routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUserHandler(userService)

	r.Get("/{userID}/public", handler.GetPublicProfile)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", handler.GetMe)
		r.Put("/me", handler.UpdateMe)
	})
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	authUser, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), authUser.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe applies a partial profile update. Only the recognized fields are
// mutable; a field absent from the payload keeps its stored value, while a
// present empty string overwrites.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	authUser, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), authUser.ID, services.ProfileUpdate{
		DisplayName:    req.DisplayName,
		ProfilePicture: req.ProfilePicture,
		Bio:            req.Bio,
		SocialLinks:    req.SocialLinks,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, UpdateProfileResponse{
		Message: "profile updated",
		User:    user,
	})
}

// GetPublicProfile returns another user's profile without authentication.
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfileRequest is the partial-update payload. Pointer fields
// distinguish an omitted field from an explicit empty value; unrecognized
// payload fields are ignored by struct decoding.
type UpdateProfileRequest struct {
	DisplayName    *string            `json:"displayName"`
	ProfilePicture *string            `json:"profilePicture"`
	Bio            *string            `json:"bio"`
	SocialLinks    *types.SocialLinks `json:"socialLinks"`
}

type UpdateProfileResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}
