package memory

import (
	"context"

	"MyHome/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := find(s.users, func(u *model.User) bool {
		return u.UserID == user.UserID || u.Email == user.Email
	}); dup {
		return gorm.ErrDuplicatedKey
	}
	user.ID = s.nextID()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	row := *user
	s.users = append(s.users, &row)
	return s.addEvent(model.EventUserCreated, user.UserID, map[string]any{
		"user_id": user.UserID,
		"name":    user.Name,
		"email":   user.Email,
	})
}

func (r *UserRepository) FindByUserID(_ context.Context, userID string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.UserID == userID })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Email == email })
}

func (r *UserRepository) findBy(match func(*model.User) bool) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := find(r.s.users, match)
	if !ok {
		return &model.User{}, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) List(_ context.Context, offset, limit int) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(collect(r.s.users, nil), offset, limit), nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, userID, encryptedPassword string) error {
	return r.update(userID, func(u *model.User) { u.EncryptedPassword = encryptedPassword })
}

func (r *UserRepository) ConfirmEmail(_ context.Context, userID string) error {
	return r.update(userID, func(u *model.User) { u.EmailConfirmed = true })
}

func (r *UserRepository) update(userID string, apply func(*model.User)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := find(s.users, func(u *model.User) bool { return u.UserID == userID })
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply(u)
	u.UpdatedAt = s.now()
	return nil
}
