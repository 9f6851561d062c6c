package domain

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Gender representa o gênero de uma pessoa física ("M", "F" ou "O").
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// GenderChoice é um par código/rótulo usado nos formulários.
type GenderChoice struct {
	Code  Gender `json:"code"`
	Label string `json:"label"`
}

// Genders devolve as opções de gênero aceitas, na ordem de exibição.
func Genders() []GenderChoice {
	return []GenderChoice{
		{Code: GenderMale, Label: "Male"},
		{Code: GenderFemale, Label: "Female"},
		{Code: GenderOther, Label: "Other"},
	}
}

// Person reúne os campos comuns a pessoas físicas e jurídicas.
type Person struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Picture     string     `json:"picture,omitempty"` // Referência ao arquivo armazenado
	Status      bool       `json:"status"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NaturalPerson é a pessoa física. O CPF é imutável depois da criação.
type NaturalPerson struct {
	Person
	CPF         string          `json:"cpf"`
	Gender      Gender          `json:"gender"`
	Birthday    time.Time       `json:"birthday"`
	IncomeRange decimal.Decimal `json:"income_range"`
}

// LegalPerson é a pessoa jurídica. Por enquanto não acrescenta campos.
type LegalPerson struct {
	Person
}

// Upload é o arquivo de imagem recebido no formulário.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// NaturalPersonInput carrega os valores crus do formulário, antes da validação.
type NaturalPersonInput struct {
	Name        string
	Email       string
	CPF         string
	Gender      string
	Birthday    string
	IncomeRange string
	Status      string
	Description string
	Picture     *Upload
}

// NaturalPersonRepository é o contrato de persistência de pessoas físicas.
// A ordenação padrão de FindAll e Search é created_at decrescente.
type NaturalPersonRepository interface {
	Save(ctx context.Context, person NaturalPerson) (NaturalPerson, error)
	FindByID(ctx context.Context, id string) (NaturalPerson, error)
	FindByEmail(ctx context.Context, email string) (NaturalPerson, error)
	FindAll(ctx context.Context) ([]NaturalPerson, error)
	Search(ctx context.Context, term string) ([]NaturalPerson, error)
	// Update nunca altera o CPF: o valor persistido é devolvido no registro atualizado.
	Update(ctx context.Context, person NaturalPerson) (NaturalPerson, error)
	Delete(ctx context.Context, id string) error
}
