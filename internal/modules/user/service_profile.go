package user

import (
	"context"
	"errors"
)

// GetProfile returns the user for the authenticated subject.
func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("get profile failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return u, nil
}

// UpdateProfile applies the provided fields to the user's profile. Nil
// pointers leave the current value untouched.
func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("update profile: find failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Phone != nil {
		u.Phone = *input.Phone
	}
	if input.Title != nil {
		u.Title = *input.Title
	}
	if input.Education != nil {
		u.Education = input.Education
	}
	if input.YearsOfExperience != nil {
		u.YearsOfExperience = input.YearsOfExperience
	}
	if input.VerificationDoc != nil {
		u.VerificationDocURL = *input.VerificationDoc
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update profile: save failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return u, nil
}
