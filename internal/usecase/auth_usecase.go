package usecase

import (
	"context"
	"errors"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// GetCurrentUser returns the local identity record of the authenticated caller
func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	caller, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if caller.UserID != id && caller.Role != domain.RoleAdmin {
		return nil, apperror.Forbidden("You can only view your own account")
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, internalErr(err)
	}
	return user, nil
}
