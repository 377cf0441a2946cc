// Package users manages account profiles: reading and updating the own
// profile, deleting the account with its cascade, and avatar handling.
package users

import (
	"context"
	"errors"

	"github.com/user/taskman-go/apperror"
	"github.com/user/taskman-go/auth"
	"github.com/user/taskman-go/avatar"
	"github.com/user/taskman-go/email"
)

// UserService implements profile operations on top of the user store.
type UserService struct {
	store  auth.UserStore
	mailer email.Mailer
}

// NewUserService constructs a UserService.
func NewUserService(store auth.UserStore, mailer email.Mailer) *UserService {
	return &UserService{store: store, mailer: mailer}
}

// UpdateProfile applies a whitelisted partial update to the user's own
// record. The password is re-hashed if and only if the password field is
// among the updated fields; updates to other fields never touch the hash.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*auth.User, error) {
	var upd auth.UserUpdate

	if req.Name != nil {
		if err := auth.ValidateName(*req.Name); err != nil {
			return nil, err
		}
		upd.Name = req.Name
	}
	if req.Email != nil {
		normalized := auth.NormalizeEmail(*req.Email)
		if err := auth.ValidateEmail(normalized); err != nil {
			return nil, err
		}
		upd.Email = &normalized
	}
	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	if req.Age != nil {
		if err := auth.ValidateAge(*req.Age); err != nil {
			return nil, err
		}
		upd.Age = req.Age
	}

	user, err := s.store.UpdateUser(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			return nil, apperror.NewValidationError("email already in use", nil)
		case errors.Is(err, auth.ErrNotFound):
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	return user, nil
}

// DeleteAccount removes the user's own account. Tasks and session tokens
// cascade at the schema level; the cancellation mail is fire and forget.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) (*auth.User, error) {
	user, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to delete user", err)
	}

	s.mailer.SendCancellation(user.Email, user.Name)

	return user, nil
}

// SetAvatar normalizes the upload to a 250x250 PNG and stores it on the
// user's record.
func (s *UserService) SetAvatar(ctx context.Context, userID int64, filename string, data []byte) error {
	normalized, err := avatar.Normalize(filename, data)
	if err != nil {
		return apperror.NewValidationError(err.Error(), nil)
	}

	if err := s.store.SetAvatar(ctx, userID, normalized); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to store avatar", err)
	}
	return nil
}

// RemoveAvatar clears the user's stored avatar.
func (s *UserService) RemoveAvatar(ctx context.Context, userID int64) error {
	if err := s.store.SetAvatar(ctx, userID, nil); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return apperror.NewNotFoundError("user not found", nil)
		}
		return apperror.NewDatabaseError("failed to remove avatar", err)
	}
	return nil
}

// AvatarByUserID returns the stored avatar PNG of any user. A missing user
// and a user without an avatar are indistinguishable.
func (s *UserService) AvatarByUserID(ctx context.Context, userID int64) ([]byte, error) {
	data, err := s.store.Avatar(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, apperror.NewNotFoundError("avatar not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load avatar", err)
	}
	return data, nil
}
