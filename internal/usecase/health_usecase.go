package usecase

import (
	"context"
	"time"

	"go-interview-scheduler/internal/domain"
)

// Pinger is a dependency whose reachability is reported by the health check
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	checks map[string]Pinger
}

func NewHealthUsecase(checks map[string]Pinger) domain.HealthUsecase {
	return &healthUsecase{checks: checks}
}

// Check pings every dependency; the bool is false when any of them is down.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, ping := range u.checks {
		if err := ping(ctx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
