package domain

import "context"

// HealthUsecase reports dependency reachability
type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}
