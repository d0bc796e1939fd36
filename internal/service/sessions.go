package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// MaxPageSize caps a page of session history.
const MaxPageSize = 100

// SessionRecorder keeps the append-only login history.
type SessionRecorder struct {
	store *repository.Store
	now   func() time.Time
}

func NewSessionRecorder(store *repository.Store) *SessionRecorder {
	return &SessionRecorder{store: store, now: time.Now}
}

// Record stores a login of userID from userAgent.
func (r *SessionRecorder) Record(ctx context.Context, userID, userAgent string) (model.Session, error) {
	s := model.NewSession(userID, userAgent, r.now())
	err := r.store.InTx(ctx, func(tx repository.Repos) error {
		return tx.Sessions.Create(ctx, s)
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("record session: %w", err)
	}
	return s, nil
}

// ListForUser returns page (1-based) of userID's logins, newest first.
// pageSize above MaxPageSize is capped.
func (r *SessionRecorder) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]model.Session, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page_number must be at least 1", ErrBadRequest)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page_size must be at least 1", ErrBadRequest)
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return r.store.Sessions.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
}
