package services

import (
	"context"

	"github.com/certfolio/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, user types.User) (types.User, error)
}

// ProfileUpdate carries a partial profile change. A nil field leaves the
// stored value unchanged; a non-nil field overwrites it, including with the
// empty string.
type ProfileUpdate struct {
	DisplayName    *string
	ProfilePicture *string
	Bio            *string
	SocialLinks    *types.SocialLinks
}

// UserService encapsulates identity and profile use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// UpdateProfile applies the recognized fields of a partial update and
// persists the result. Credentials are untouched by this path.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.ProfilePicture != nil {
		user.ProfilePicture = *update.ProfilePicture
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.SocialLinks != nil {
		user.SocialLinks = *update.SocialLinks
	}

	return s.repo.UpdateProfile(ctx, user)
}
