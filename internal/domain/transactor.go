package domain

import "context"

// Transactor runs fn inside one storage transaction holding an exclusive
// per-recruiter lock, so conflict checks and the following write cannot interleave
// with another booking for the same recruiter. Repositories called with the ctx
// passed to fn join the transaction.
type Transactor interface {
	WithinRecruiterLock(ctx context.Context, recruiterID string, fn func(ctx context.Context) error) error
}
