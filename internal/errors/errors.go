package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AppError é a interface central para todos os erros customizados do gopeople.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa a falha de validação de um único campo.
// Field identifica o campo (e.g., "cpf", "email"); os chamadores decidem pelo campo, não pelo tipo.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Erro de Validação: %s", e.Msg)
	}
	return fmt.Sprintf("Erro de Validação: %s: %s", e.Field, e.Msg)
}
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }                   // Não encapsula erro subjacente

// NewValidationError cria um erro de validação sem campo associado (payload, formato de ID, etc.).
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewFieldError cria um erro de validação para um campo específico.
func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// ValidationErrors agrega as falhas de todos os campos de um formulário.
// Cada validador falha no máximo uma vez por campo.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Msg))
	}
	return fmt.Sprintf("Erro de Validação: %s", strings.Join(parts, "; "))
}
func (e ValidationErrors) Category() string { return "VALIDATION_ERROR" }
func (e ValidationErrors) HTTPStatus() int  { return http.StatusBadRequest }
func (e ValidationErrors) Unwrap() error    { return nil }

// Fields devolve o mapa campo -> mensagem usado na resposta HTTP.
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Msg
	}
	return out
}

// Has informa se existe falha registrada para o campo.
func (e ValidationErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Collect acrescenta err à lista quando ele é um *ValidationError.
// Qualquer outro erro é devolvido para o chamador tratar (falha de infraestrutura).
func (e *ValidationErrors) Collect(err error) error {
	if err == nil {
		return nil
	}
	var fe *ValidationError
	if stderrors.As(err, &fe) {
		*e = append(*e, fe)
		return nil
	}
	return err
}

// OrNil devolve nil quando não há falhas, evitando o clássico nil-interface não nulo.
func (e ValidationErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	sort.SliceStable(e, func(i, j int) bool { return e[i].Field < e[j].Field })
	return e
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., recurso duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes, inválidas ou revogadas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Erro Interno: %s", e.Msg)
	}
	return fmt.Sprintf("Erro Interno: %s: %s", e.Msg, e.Err.Error())
}
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, a categoria e a mensagem.
// Percorre a cadeia de Unwrap, de modo que erros embrulhados com %w continuam tipados.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			// Não vaza detalhes do driver para o cliente.
			return appErr.HTTPStatus(), appErr.Category(), "Ocorreu um erro inesperado."
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// FieldErrors extrai o mapa campo -> mensagem de err, quando houver.
func FieldErrors(err error) map[string]string {
	var many ValidationErrors
	if stderrors.As(err, &many) {
		return many.Fields()
	}
	var one *ValidationError
	if stderrors.As(err, &one) && one.Field != "" {
		return map[string]string{one.Field: one.Msg}
	}
	return nil
}
