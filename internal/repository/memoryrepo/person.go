// Package memoryrepo guarda os registros em memória (STORAGE=memory e testes).
package memoryrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/validator"
)

// PersonRepo reproduz as restrições do banco: e-mail único sem diferenciar
// maiúsculas, CPF único e CPF imutável no Update.
type PersonRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.NaturalPerson
}

func NewPersonRepo() *PersonRepo {
	return &PersonRepo{byID: make(map[string]domain.NaturalPerson)}
}

func notFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Pessoa com ID %s não existe na base de dados.", id))
}

// checkUnique deve ser chamado com o lock de escrita.
func (r *PersonRepo) checkUnique(p domain.NaturalPerson, checkCPF bool) error {
	for id, other := range r.byID {
		if id == p.ID {
			continue
		}
		if strings.EqualFold(other.Email, p.Email) {
			return apperror.NewFieldError(validator.FieldEmail, validator.MsgEmailTaken)
		}
		if checkCPF && other.CPF == p.CPF {
			return apperror.NewFieldError(validator.FieldCPF, validator.MsgCPFTaken)
		}
	}
	return nil
}

func (r *PersonRepo) Save(_ context.Context, p domain.NaturalPerson) (domain.NaturalPerson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.byID[p.ID]; exists {
		return domain.NaturalPerson{}, apperror.NewConflictError(fmt.Sprintf("Pessoa com ID %s já existe.", p.ID))
	}
	if err := r.checkUnique(p, true); err != nil {
		return domain.NaturalPerson{}, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *PersonRepo) FindByID(_ context.Context, id string) (domain.NaturalPerson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return domain.NaturalPerson{}, notFound(id)
	}
	return p, nil
}

func (r *PersonRepo) FindByEmail(_ context.Context, email string) (domain.NaturalPerson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return domain.NaturalPerson{}, apperror.NewNotFoundError(fmt.Sprintf("Pessoa com e-mail '%s' não encontrada.", email))
}

func (r *PersonRepo) FindAll(ctx context.Context) ([]domain.NaturalPerson, error) {
	return r.Search(ctx, "")
}

// Search: prefixo do nome OU trecho do CPF OU trecho do e-mail, sem diferenciar maiúsculas.
func (r *PersonRepo) Search(_ context.Context, term string) ([]domain.NaturalPerson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.NaturalPerson, 0, len(r.byID))
	for _, p := range r.byID {
		if term == "" ||
			strings.HasPrefix(strings.ToLower(p.Name), term) ||
			strings.Contains(p.CPF, term) ||
			strings.Contains(strings.ToLower(p.Email), term) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PersonRepo) Update(_ context.Context, p domain.NaturalPerson) (domain.NaturalPerson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[p.ID]
	if !ok {
		return domain.NaturalPerson{}, notFound(p.ID)
	}
	if err := r.checkUnique(p, false); err != nil {
		return domain.NaturalPerson{}, err
	}

	p.CPF = stored.CPF
	p.CreatedAt = stored.CreatedAt
	r.byID[p.ID] = p
	return p, nil
}

func (r *PersonRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return notFound(id)
	}
	delete(r.byID, id)
	return nil
}
