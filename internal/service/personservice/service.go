package personservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/storage"
	"gopeople/internal/report"
	"gopeople/internal/validator"
)

// MsgEmptyReport é devolvida quando não há registros para o relatório.
const MsgEmptyReport = "No records found for report creation."

// Service concentra as regras de cadastro e relatório de pessoas físicas.
type Service struct {
	repo     domain.NaturalPersonRepository
	pictures storage.PictureStore
	clock    validator.Clock
	logger   logger.Logger
	now      func() time.Time
}

// NewService cria o serviço. clock define o "hoje" da regra de idade mínima.
func NewService(repo domain.NaturalPersonRepository, pictures storage.PictureStore, clock validator.Clock, log logger.Logger) *Service {
	if clock == nil {
		clock = validator.SystemClock{}
	}
	return &Service{
		repo:     repo,
		pictures: pictures,
		clock:    clock,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// validated guarda os valores normalizados do formulário.
type validated struct {
	name        string
	email       string
	cpf         string
	gender      domain.Gender
	birthday    time.Time
	income      decimal.Decimal
	status      bool
	description string
	picture     *domain.Upload
}

// validate roda todos os validadores de forma independente e junta as falhas.
// instance é o registro em edição (nil na criação); na edição o CPF não é validado.
// Um erro que não seja de validação (falha do repositório) interrompe e é devolvido.
func (s *Service) validate(ctx context.Context, in domain.NaturalPersonInput, instance *domain.NaturalPerson) (validated, error) {
	var (
		v    validated
		errs apperror.ValidationErrors
		err  error
	)

	v.name, err = validator.ValidateName(in.Name)
	errs.Collect(err)

	v.email, err = validator.ValidateEmail(ctx, s.repo, in.Email, instance)
	if err := errs.Collect(err); err != nil {
		return validated{}, err
	}

	if instance == nil {
		v.cpf, err = validator.ValidateCPF(in.CPF)
		errs.Collect(err)
	} else {
		v.cpf = instance.CPF
	}

	v.gender, err = validator.ValidateGender(in.Gender)
	errs.Collect(err)

	v.birthday, err = validator.ValidateBirthday(in.Birthday, s.clock)
	errs.Collect(err)

	v.income, err = validator.ValidateIncomeRange(in.IncomeRange)
	errs.Collect(err)

	v.status, err = validator.ValidateStatus(in.Status)
	errs.Collect(err)

	v.description, err = validator.ValidateDescription(in.Description)
	errs.Collect(err)

	if in.Picture != nil {
		v.picture, err = validator.ValidatePictureUpload(in.Picture)
		errs.Collect(err)
	} else {
		pictureRef := ""
		if instance != nil {
			pictureRef = instance.Picture
		}
		_, err = validator.ValidatePicture(pictureRef)
		errs.Collect(err)
	}

	return v, errs.OrNil()
}

func (s *Service) storePicture(ctx context.Context, upload *domain.Upload) (string, error) {
	ref, err := s.pictures.Save(ctx, upload.Filename, upload.ContentType, upload.Content)
	if err != nil {
		s.logger.Error("Falha ao armazenar foto.", err)
		return "", apperror.NewInternalError("Falha ao armazenar foto.", err)
	}
	return ref, nil
}

// discardPicture remove um arquivo que ficou sem registro. Falhas só são logadas.
func (s *Service) discardPicture(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.pictures.Delete(ctx, ref); err != nil {
		s.logger.Warn("Falha ao remover foto.", map[string]interface{}{"picture": ref, "error": err.Error()})
	}
}

// Create valida o formulário inteiro, armazena a foto e persiste o registro.
func (s *Service) Create(ctx context.Context, in domain.NaturalPersonInput) (domain.NaturalPerson, error) {
	v, err := s.validate(ctx, in, nil)
	if err != nil {
		return domain.NaturalPerson{}, err
	}

	ref, err := s.storePicture(ctx, v.picture)
	if err != nil {
		return domain.NaturalPerson{}, err
	}

	person := domain.NaturalPerson{
		Person: domain.Person{
			ID:          uuid.NewString(),
			Name:        v.name,
			Email:       v.email,
			Picture:     ref,
			Status:      v.status,
			Description: v.description,
			CreatedAt:   s.now(),
		},
		CPF:         v.cpf,
		Gender:      v.gender,
		Birthday:    v.birthday,
		IncomeRange: v.income,
	}

	saved, err := s.repo.Save(ctx, person)
	if err != nil {
		s.discardPicture(ctx, ref)
		return domain.NaturalPerson{}, err
	}

	s.logger.Info("Pessoa física cadastrada.", map[string]interface{}{"person_id": saved.ID})
	return saved, nil
}

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apperror.NewValidationError("Invalid person ID.")
	}
	return parsed.String(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.NaturalPerson, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.NaturalPerson{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// List devolve todos os registros ou os que casam com search, do mais recente ao mais antigo.
func (s *Service) List(ctx context.Context, search string) ([]domain.NaturalPerson, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return s.repo.FindAll(ctx)
	}
	return s.repo.Search(ctx, search)
}

// Update regrava o registro. O CPF informado é ignorado e a foto é opcional
// quando já existe uma armazenada.
func (s *Service) Update(ctx context.Context, id string, in domain.NaturalPersonInput) (domain.NaturalPerson, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.NaturalPerson{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.NaturalPerson{}, err
	}

	v, err := s.validate(ctx, in, &existing)
	if err != nil {
		return domain.NaturalPerson{}, err
	}

	ref := existing.Picture
	if v.picture != nil {
		if ref, err = s.storePicture(ctx, v.picture); err != nil {
			return domain.NaturalPerson{}, err
		}
	}

	updatedAt := s.now()
	if updatedAt.Before(existing.CreatedAt) {
		updatedAt = existing.CreatedAt
	}

	person := domain.NaturalPerson{
		Person: domain.Person{
			ID:          existing.ID,
			Name:        v.name,
			Email:       v.email,
			Picture:     ref,
			Status:      v.status,
			Description: v.description,
			CreatedAt:   existing.CreatedAt,
			UpdatedAt:   &updatedAt,
		},
		CPF:         existing.CPF,
		Gender:      v.gender,
		Birthday:    v.birthday,
		IncomeRange: v.income,
	}

	updated, err := s.repo.Update(ctx, person)
	if err != nil {
		if ref != existing.Picture {
			s.discardPicture(ctx, ref)
		}
		return domain.NaturalPerson{}, err
	}
	if ref != existing.Picture {
		s.discardPicture(ctx, existing.Picture)
	}

	s.logger.Info("Pessoa física atualizada.", map[string]interface{}{"person_id": updated.ID})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardPicture(ctx, existing.Picture)

	s.logger.Info("Pessoa física removida.", map[string]interface{}{"person_id": id})
	return nil
}

// Report monta o relatório de renda sobre um snapshot novo da base.
func (s *Service) Report(ctx context.Context) (domain.ReportSummary, error) {
	people, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.ReportSummary{}, err
	}
	if len(people) == 0 {
		return domain.ReportSummary{}, apperror.NewNotFoundError(MsgEmptyReport)
	}
	return report.New(people).Summary(), nil
}

// Genders devolve as opções de gênero para os formulários.
func (s *Service) Genders() []domain.GenderChoice {
	return domain.Genders()
}
