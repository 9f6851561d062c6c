package userservice

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/middleware"
	"gopeople/internal/validator"
)

// MsgInvalidCredentials é a única mensagem devolvida em falhas de login.
const MsgInvalidCredentials = "Invalid username and password."

// TokenGenerator é o contrato da camada de token (internal/pkg/token).
type TokenGenerator interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenGenerator
	Revoked  cache.Client
	logger   logger.Logger
	now      func() time.Time
}

// NewService cria uma nova instância do UserService.
// revoked guarda os tokens encerrados no logout até a expiração deles.
func NewService(repo domain.UserRepository, tokenSvc TokenGenerator, revoked cache.Client, log logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		Revoked:  revoked,
		logger:   log,
		now:      time.Now,
	}
}

// Register cria um usuário com a senha em hash bcrypt. Role vazia vira "user".
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	var errs apperror.ValidationErrors
	username, err := validator.ValidateUsername(registration.Username)
	errs.Collect(err)
	password, err := validator.ValidatePassword(registration.Password)
	errs.Collect(err)

	role := registration.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		errs.Collect(apperror.NewFieldError("role", "Invalid role."))
	}
	if err := errs.OrNil(); err != nil {
		return domain.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user, err := s.UserRepo.Save(ctx, domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "username": user.Username, "role": user.Role})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, username string, password string) (string, error) {
	var errs apperror.ValidationErrors
	_, err := validator.ValidateUsername(username)
	errs.Collect(err)
	_, err = validator.ValidatePassword(password)
	errs.Collect(err)
	if err := errs.OrNil(); err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		// Usuário inexistente recebe a mesma resposta de senha errada.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			s.logger.Info("Tentativa de login com usuário inexistente.", map[string]interface{}{"username": username})
			return "", apperror.NewUnauthorizedError(MsgInvalidCredentials)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Tentativa de login com senha inválida.", map[string]interface{}{"username": username})
		return "", apperror.NewUnauthorizedError(MsgInvalidCredentials)
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID})
	return tokenString, nil
}

// Logout revoga o token atual até o instante em que ele expiraria.
func (s *UserService) Logout(ctx context.Context, claims middleware.UserClaims) error {
	if claims.TokenID == "" {
		return apperror.NewUnauthorizedError("Token sem identificador.")
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		// Já expirado: nada a revogar.
		return nil
	}

	if err := s.Revoked.Set(ctx, middleware.RevokedTokenPrefix+claims.TokenID, "1", ttl); err != nil {
		return apperror.NewInternalError("Falha ao revogar token.", err)
	}

	s.logger.Info("Logout realizado.", map[string]interface{}{"user_id": claims.UserID})
	return nil
}

// EnsureAdmin cria o administrador informado na configuração, se ainda não existir.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.UserRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	var notFoundErr *apperror.NotFoundError
	if !errors.As(err, &notFoundErr) {
		return err
	}

	_, err = s.Register(ctx, domain.UserRegistration{Username: username, Password: password, Role: domain.RoleAdmin})
	var conflictErr *apperror.ConflictError
	if errors.As(err, &conflictErr) {
		// Outra instância criou o mesmo usuário no meio tempo.
		return nil
	}
	return err
}
