package person

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gopeople/internal/api/response"
	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/currency"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/validator"
)

// MaxUploadSize limita o corpo multipart (foto + campos).
const MaxUploadSize = 5 << 20

// PersonService define o contrato que o Handler espera da camada de Serviço.
type PersonService interface {
	Create(ctx context.Context, in domain.NaturalPersonInput) (domain.NaturalPerson, error)
	GetByID(ctx context.Context, id string) (domain.NaturalPerson, error)
	List(ctx context.Context, search string) ([]domain.NaturalPerson, error)
	Update(ctx context.Context, id string, in domain.NaturalPersonInput) (domain.NaturalPerson, error)
	Delete(ctx context.Context, id string) error
	Report(ctx context.Context) (domain.ReportSummary, error)
	Genders() []domain.GenderChoice
}

// PersonResponse acrescenta a renda formatada em reais e a data de nascimento sem horário.
type PersonResponse struct {
	domain.NaturalPerson
	Birthday       string `json:"birthday" example:"1990-05-10"`
	IncomeRangeFmt string `json:"income_range_fmt" example:"R$ 1500,75"`
}

func newPersonResponse(p domain.NaturalPerson) PersonResponse {
	return PersonResponse{
		NaturalPerson:  p,
		Birthday:       p.Birthday.Format(validator.DateLayouts[1]),
		IncomeRangeFmt: currency.Format(p.IncomeRange),
	}
}

// Handler agrupa os handlers de pessoa física.
type Handler struct {
	Service PersonService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PersonService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, successStatus, data)
}

// parseForm lê os campos do formulário (multipart ou urlencoded).
// O arquivo devolvido, se houver, deve ser fechado pelo chamador.
func parseForm(r *http.Request) (domain.NaturalPersonInput, multipart.File, error) {
	var in domain.NaturalPersonInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			return in, nil, apperror.NewValidationError("Formulário multipart inválido.")
		}
	} else if err := r.ParseForm(); err != nil {
		return in, nil, apperror.NewValidationError("Formulário inválido.")
	}

	in = domain.NaturalPersonInput{
		Name:        r.FormValue(validator.FieldName),
		Email:       r.FormValue(validator.FieldEmail),
		CPF:         r.FormValue(validator.FieldCPF),
		Gender:      r.FormValue(validator.FieldGender),
		Birthday:    r.FormValue(validator.FieldBirthday),
		IncomeRange: r.FormValue(validator.FieldIncomeRange),
		Status:      r.FormValue(validator.FieldStatus),
		Description: r.FormValue(validator.FieldDescription),
	}

	if r.MultipartForm == nil {
		return in, nil, nil
	}
	file, header, err := r.FormFile(validator.FieldPicture)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, apperror.NewFieldError(validator.FieldPicture, "Invalid picture.")
	}
	in.Picture = &domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	return in, file, nil
}

// CreatePersonHandler lida com a requisição POST /v1/people.
// @Summary Cadastra uma pessoa física
// @Description Valida todos os campos do formulário, armazena a foto e persiste o registro.
// @Tags people
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Nome (4 a 50 caracteres)"
// @Param email formData string true "E-mail"
// @Param cpf formData string true "CPF (com ou sem pontuação)"
// @Param gender formData string true "M, F ou O"
// @Param birthday formData string true "dd/mm/aaaa ou aaaa-mm-dd"
// @Param income_range formData string true "Renda em reais (ex.: 1.500,75)"
// @Param status formData string true "true ou false"
// @Param description formData string false "Descrição (até 200 caracteres)"
// @Param picture formData file true "Foto (png, jpeg, gif, webp ou bmp)"
// @Success 201 {object} PersonResponse
// @Failure 400 {object} domain.ErrorResponse "Falhas de validação por campo"
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /people [post]
func (h *Handler) CreatePersonHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	in, file, err := parseForm(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}
	if file != nil {
		defer file.Close()
	}

	person, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}
	h.handleServiceResponse(w, r, newPersonResponse(person), nil, http.StatusCreated)
}

// GetPersonHandler lida com a requisição GET /v1/people/{id}.
// @Summary Detalhe de uma pessoa física
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da pessoa (UUID)"
// @Success 200 {object} PersonResponse
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Pessoa não encontrada"
// @Router /people/{id} [get]
func (h *Handler) GetPersonHandler(w http.ResponseWriter, r *http.Request) {
	person, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, newPersonResponse(person), nil, http.StatusOK)
}

// ListPeopleHandler lida com a requisição GET /v1/people?search=.
// @Summary Lista pessoas físicas
// @Description Sem search devolve todos; com search filtra por início do nome, trecho do CPF ou trecho do e-mail.
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param search query string false "Termo de busca"
// @Success 200 {array} PersonResponse
// @Router /people [get]
func (h *Handler) ListPeopleHandler(w http.ResponseWriter, r *http.Request) {
	people, err := h.Service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	out := make([]PersonResponse, 0, len(people))
	for _, p := range people {
		out = append(out, newPersonResponse(p))
	}
	h.handleServiceResponse(w, r, out, nil, http.StatusOK)
}

// UpdatePersonHandler lida com a requisição PUT /v1/people/{id}.
// @Summary Atualiza uma pessoa física
// @Description O CPF não pode ser alterado; o valor enviado é ignorado. A foto é opcional.
// @Tags people
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da pessoa (UUID)"
// @Param name formData string true "Nome"
// @Param email formData string true "E-mail"
// @Param gender formData string true "M, F ou O"
// @Param birthday formData string true "Data de nascimento"
// @Param income_range formData string true "Renda em reais"
// @Param status formData string true "true ou false"
// @Param description formData string false "Descrição"
// @Param picture formData file false "Nova foto (png, jpeg, gif, webp ou bmp)"
// @Success 200 {object} PersonResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /people/{id} [put]
func (h *Handler) UpdatePersonHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	in, file, err := parseForm(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	if file != nil {
		defer file.Close()
	}

	person, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, newPersonResponse(person), nil, http.StatusOK)
}

// DeletePersonHandler lida com a requisição DELETE /v1/people/{id}.
// @Summary Remove uma pessoa física
// @Tags people
// @Security BearerAuth
// @Param id path string true "ID da pessoa (UUID)"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /people/{id} [delete]
func (h *Handler) DeletePersonHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"))
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// ReportHandler lida com a requisição GET /v1/people/report.
// @Summary Relatório de renda
// @Description Maior, menor e média de renda, pessoas acima/abaixo/na média e contagem por gênero.
// @Tags people
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ReportSummary
// @Failure 404 {object} domain.ErrorResponse "Nenhum registro para o relatório"
// @Router /people/report [get]
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Report(r.Context())
	h.handleServiceResponse(w, r, summary, err, http.StatusOK)
}

// GendersHandler lida com a requisição GET /v1/genders.
// @Summary Opções de gênero
// @Tags people
// @Produce json
// @Success 200 {array} domain.GenderChoice
// @Router /genders [get]
func (h *Handler) GendersHandler(w http.ResponseWriter, r *http.Request) {
	h.handleServiceResponse(w, r, h.Service.Genders(), nil, http.StatusOK)
}
