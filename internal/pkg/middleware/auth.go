package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// RevokedTokenPrefix é o prefixo das chaves de tokens revogados no cache.
const RevokedTokenPrefix = "revoked-token:"

// UserClaims representa os dados do usuário extraídos do token JWT.
type UserClaims struct {
	UserID    string
	Role      domain.UserRole
	TokenID   string
	ExpiresAt time.Time
}

// TokenValidator define o contrato de validação necessário para o middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// WriteError escreve o corpo de erro padronizado da API.
func WriteError(w http.ResponseWriter, status int, category, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

func writeAppError(w http.ResponseWriter, err error) {
	status, category, msg := apperror.MapToHTTPStatus(err)
	WriteError(w, status, category, msg)
}

// NewAuthMiddleware valida o Bearer token, recusa tokens revogados no logout
// e anexa as claims ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenValidator, revoked cache.Client, log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				writeAppError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString))
			if err != nil {
				writeAppError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			isRevoked, err := revoked.Exists(r.Context(), RevokedTokenPrefix+claims.ID)
			if err != nil {
				log.Error("Falha ao consultar revogação do token", err)
				writeAppError(w, apperror.NewInternalError("falha ao consultar revogação", err))
				return
			}
			if isRevoked {
				writeAppError(w, apperror.NewUnauthorizedError("Token revogado."))
				return
			}

			userClaims := UserClaims{
				UserID:  claims.UserID,
				Role:    domain.UserRole(claims.Role),
				TokenID: claims.ID,
			}
			if claims.ExpiresAt != nil {
				userClaims.ExpiresAt = claims.ExpiresAt.Time
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo middleware de autenticação.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// ContextWithClaims anexa claims ao contexto (usado em testes de handlers).
func ContextWithClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// PermissionMiddleware libera o acesso apenas para as roles informadas.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeAppError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			WriteError(w, http.StatusForbidden, "FORBIDDEN", "Acesso negado. Você não tem a permissão necessária.")
		})
	}
}
