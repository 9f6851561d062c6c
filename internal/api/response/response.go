// Package response padroniza o corpo JSON das respostas da API.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/logger"
)

// JSON escreve data com o status informado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz err para {code, category, message, fields}.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	JSON(w, log, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
		Fields:   apperror.FieldErrors(err),
	})
}
