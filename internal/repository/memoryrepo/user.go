package memoryrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
)

// UserRepo é o domain.UserRepository em memória.
type UserRepo struct {
	mu         sync.RWMutex
	byUsername map[string]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byUsername: make(map[string]domain.User)}
}

func (r *UserRepo) Save(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return domain.User{}, apperror.NewConflictError(fmt.Sprintf("Usuário '%s' já existe.", user.Username))
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.byUsername[user.Username] = user
	return user, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário '%s' não encontrado", username))
	}
	return user, nil
}
