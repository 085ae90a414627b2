package memory

import (
	"context"
	"time"

	"MyHome/internal/model"
	"MyHome/internal/repository"

	"gorm.io/gorm"
)

type SecurityTokenRepository struct{ s *Store }

func (r *SecurityTokenRepository) Create(_ context.Context, t *model.SecurityToken) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := find(s.tokens, func(x *model.SecurityToken) bool { return x.Token == t.Token }); dup {
		return gorm.ErrDuplicatedKey
	}
	t.ID = s.nextID()
	row := *t
	s.tokens = append(s.tokens, &row)
	return nil
}

func (r *SecurityTokenRepository) FindByToken(_ context.Context, token string) (*model.SecurityToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := find(r.s.tokens, func(t *model.SecurityToken) bool { return t.Token == token })
	if !ok {
		return &model.SecurityToken{}, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *SecurityTokenRepository) MarkUsed(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := find(r.s.tokens, func(t *model.SecurityToken) bool { return t.Token == token && !t.Used })
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Used = true
	return nil
}

func (r *SecurityTokenRepository) DeleteStale(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int
	r.s.tokens, n = remove(r.s.tokens, func(t *model.SecurityToken) bool { return t.Used || t.Expired(now) })
	return int64(n), nil
}

type SessionRepository struct{ s *Store }

func (r *SessionRepository) Save(_ context.Context, userID, token string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[userID] = session{token: token, expires: r.s.now().Add(ttl)}
	return nil
}

func (r *SessionRepository) Get(_ context.Context, userID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sess, ok := r.s.sessions[userID]
	if !ok || !r.s.now().Before(sess.expires) {
		return "", repository.ErrSessionNotFound
	}
	return sess.token, nil
}

func (r *SessionRepository) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, userID)
	return nil
}

type OutboxRepository struct{ s *Store }

func (r *OutboxRepository) List(_ context.Context, batchSize int) ([]model.EventOutbox, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := collect(r.s.outbox, func(e *model.EventOutbox) bool { return e.Status == model.OutboxPending })
	return window(list, 0, batchSize), nil
}

func (r *OutboxRepository) RetryUpdate(_ context.Context, id uint64) error {
	return r.update(id, func(e *model.EventOutbox) { e.Retry++ })
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id uint64) error {
	return r.update(id, func(e *model.EventOutbox) {
		e.Retry++
		e.Status = model.OutboxFailed
	})
}

func (r *OutboxRepository) SuccessUpdate(_ context.Context, id uint64) error {
	return r.update(id, func(e *model.EventOutbox) { e.Status = model.OutboxSent })
}

// Events returns a copy of every outbox row.
func (r *OutboxRepository) Events() []model.EventOutbox {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return collect(r.s.outbox, nil)
}

func (r *OutboxRepository) update(id uint64, apply func(*model.EventOutbox)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := find(r.s.outbox, func(e *model.EventOutbox) bool { return e.ID == id }); ok {
		apply(e)
		e.UpdatedAt = r.s.now()
	}
	return nil
}
