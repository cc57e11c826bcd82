package usecase

import (
	"context"
	"errors"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
)

// currentIdentity returns the authenticated caller or an Unauthorized error.
func currentIdentity(ctx context.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return domain.Identity{}, apperror.Unauthorized("User not authenticated")
	}
	return id, nil
}

// requireRecruiter allows the recruiter themself or an admin.
func requireRecruiter(ctx context.Context, recruiterID string) error {
	id, err := currentIdentity(ctx)
	if err != nil {
		return err
	}
	if id.Role == domain.RoleAdmin {
		return nil
	}
	if id.Role != domain.RoleEmployer || id.UserID != recruiterID {
		return apperror.Forbidden("You can only manage your own schedule")
	}
	return nil
}

// requireCandidate allows the candidate themself or an admin.
func requireCandidate(ctx context.Context, candidateID string) error {
	id, err := currentIdentity(ctx)
	if err != nil {
		return err
	}
	if id.Role == domain.RoleAdmin {
		return nil
	}
	if id.UserID != candidateID {
		return apperror.Forbidden("You can only view your own interviews")
	}
	return nil
}

// requireParticipant allows either side of the interview or an admin.
func requireParticipant(ctx context.Context, iv *domain.Interview) (domain.Identity, error) {
	id, err := currentIdentity(ctx)
	if err != nil {
		return id, err
	}
	if id.Role == domain.RoleAdmin || id.UserID == iv.RecruiterID || id.UserID == iv.CandidateID {
		return id, nil
	}
	return id, apperror.Forbidden("You are not a participant of this interview")
}

// internalErr passes AppErrors through and wraps anything else.
func internalErr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err)
}
