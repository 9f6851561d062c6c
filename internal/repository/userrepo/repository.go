package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/logger"
)

const (
	insertUserSQL = `INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
	                 VALUES ($1, $2, $3, $4, $5, $6)`
	findByUsernameSQL = `SELECT id, username, password_hash, role, created_at, updated_at
	                     FROM users WHERE username = $1`
)

// UserRepository implementa a interface domain.UserRepository
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertUserSQL,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("Usuário '%s' já existe.", user.Username))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "username": user.Username})
	return user, nil
}

// FindByUsername busca um usuário pelo nome de login.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		user domain.User
		role string
	)
	err := r.DB.QueryRowContext(ctxTimeout, findByUsernameSQL, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário '%s' não encontrado", username))
		}
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by username", err)
	}
	user.Role = domain.UserRole(role)
	return user, nil
}
