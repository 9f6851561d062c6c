package userservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/middleware"
	"gopeople/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockTokenGenerator é uma implementação mock de TokenGenerator
type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newService(repo *MockUserRepository, tok *MockTokenGenerator, c cache.Client) *userservice.UserService {
	return userservice.NewService(repo, tok, c, logger.NewNop())
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTok := new(MockTokenGenerator)
	svc := newService(mockRepo, mockTok, cache.NewMemoryClient())

	user := domain.User{ID: "u1", Username: "anderson", PasswordHash: hashed(t, "s3cret"), Role: domain.RoleUser}
	mockRepo.On("FindByUsername", mock.Anything, "anderson").Return(user, nil)
	mockTok.On("GenerateToken", "u1", "user").Return("jwt-token", nil)

	tok, err := svc.Login(context.Background(), "anderson", "s3cret")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", tok)
	mockRepo.AssertExpectations(t)
	mockTok.AssertExpectations(t)
}

func TestLogin_Fail_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTok := new(MockTokenGenerator)
	svc := newService(mockRepo, mockTok, cache.NewMemoryClient())

	user := domain.User{ID: "u1", Username: "anderson", PasswordHash: hashed(t, "s3cret")}
	mockRepo.On("FindByUsername", mock.Anything, "anderson").Return(user, nil)

	_, err := svc.Login(context.Background(), "anderson", "errada")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	assert.Contains(t, err.Error(), userservice.MsgInvalidCredentials)
	mockTok.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestLogin_Fail_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(domain.User{}, apperror.NewNotFoundError("ghost"))

	_, err := svc.Login(context.Background(), "ghost", "x")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	assert.Contains(t, err.Error(), userservice.MsgInvalidCredentials)
}

func TestLogin_Fail_ValidationCollectsBothFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	_, err := svc.Login(context.Background(), "com espaco", "")

	assert.Equal(t, map[string]string{
		"username": "Invalid username format. Spaces are not allowed.",
		"password": "Password is empty.",
	}, apperror.FieldErrors(err))
	mockRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestLogin_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	dbErr := apperror.NewDBError("falha", errors.New("conn refused"))
	mockRepo.On("FindByUsername", mock.Anything, "anderson").Return(domain.User{}, dbErr)

	_, err := svc.Login(context.Background(), "anderson", "x")
	assert.Equal(t, dbErr, err)
}

// --- Logout ---

func TestLogout_RevokesUntilExpiry(t *testing.T) {
	c := cache.NewMemoryClient()
	svc := newService(new(MockUserRepository), new(MockTokenGenerator), c)

	claims := middleware.UserClaims{UserID: "u1", TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, svc.Logout(context.Background(), claims))

	revoked, err := c.Exists(context.Background(), middleware.RevokedTokenPrefix+"jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_ExpiredTokenIsNoop(t *testing.T) {
	c := cache.NewMemoryClient()
	svc := newService(new(MockUserRepository), new(MockTokenGenerator), c)

	claims := middleware.UserClaims{TokenID: "jti-2", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, svc.Logout(context.Background(), claims))

	revoked, _ := c.Exists(context.Background(), middleware.RevokedTokenPrefix+"jti-2")
	assert.False(t, revoked)
}

func TestLogout_MissingTokenID(t *testing.T) {
	svc := newService(new(MockUserRepository), new(MockTokenGenerator), cache.NewMemoryClient())

	err := svc.Logout(context.Background(), middleware.UserClaims{ExpiresAt: time.Now().Add(time.Hour)})
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

// --- Register ---

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "novo" &&
			u.Role == domain.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("senha")) == nil
	})).Return(domain.User{ID: "u2", Username: "novo", Role: domain.RoleUser}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{Username: "novo", Password: "senha"})

	assert.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	mockRepo.AssertExpectations(t)
}

func TestRegister_Fail_InvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	_, err := svc.Register(context.Background(), domain.UserRegistration{Username: "novo", Password: "senha", Role: "root"})

	assert.IsType(t, apperror.ValidationErrors{}, err)
	assert.Contains(t, apperror.FieldErrors(err), "role")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_Fail_Duplicate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.User{}, apperror.NewConflictError("dup"))

	_, err := svc.Register(context.Background(), domain.UserRegistration{Username: "novo", Password: "senha"})
	assert.IsType(t, &apperror.ConflictError{}, err)
}

// --- EnsureAdmin ---

func TestEnsureAdmin_CreatesWhenMissing(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(domain.User{}, apperror.NewNotFoundError("admin"))
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "admin" && u.Role == domain.RoleAdmin
	})).Return(domain.User{ID: "a1"}, nil)

	assert.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "secret"))
	mockRepo.AssertExpectations(t)
}

func TestEnsureAdmin_ExistingOrUnconfigured(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenGenerator), cache.NewMemoryClient())

	assert.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	mockRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)

	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(domain.User{ID: "a1"}, nil)
	assert.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "secret"))
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
