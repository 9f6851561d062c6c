package user

import (
	"context"
	"encoding/json"
	"net/http"

	"gopeople/internal/api/response"
	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/middleware"
)

// UserService define o contrato para as operações de autenticação.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, username string, password string) (string, error)
	Logout(ctx context.Context, claims middleware.UserClaims) error
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"secret"`
}

// TokenResponse é a resposta de um login bem-sucedido.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse é uma resposta simples de confirmação.
type MessageResponse struct {
	Message string `json:"message"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, successStatus, data)
}

// RegisterUserHandler lida com a requisição POST /v1/register.
// @Summary Registra um novo usuário
// @Description Apenas administradores. A senha é salva em hash bcrypt.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registration body domain.UserRegistration true "Usuário, senha e role (admin ou user)"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Sem permissão"
// @Failure 409 {object} domain.ErrorResponse "Usuário já cadastrado"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	newUser, err := h.Service.Register(r.Context(), reg)
	h.handleServiceResponse(w, r, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário"
// @Success 200 {object} TokenResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Campos vazios ou inválidos"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	token, err := h.Service.Login(r.Context(), loginReq.Username, loginReq.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, TokenResponse{Token: token}, nil, http.StatusOK)
}

// LogoutUserHandler lida com a requisição POST /v1/logout.
// @Summary Encerra a sessão revogando o token atual
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /logout [post]
func (h *Handler) LogoutUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	if err := h.Service.Logout(r.Context(), claims); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, MessageResponse{Message: "Logged out."}, nil, http.StatusOK)
}
