package validator_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/validator"
)

// assertFieldError verifica que err é um ValidationError do campo e mensagem esperados.
func assertFieldError(t *testing.T, err error, field, msg string) {
	t.Helper()
	var fe *apperror.ValidationError
	require.True(t, errors.As(err, &fe), "esperado ValidationError, obtido %v", err)
	assert.Equal(t, field, fe.Field)
	assert.Equal(t, msg, fe.Msg)
}

// MockEmailFinder é uma implementação mock de validator.EmailFinder
type MockEmailFinder struct {
	mock.Mock
}

func (m *MockEmailFinder) FindByEmail(ctx context.Context, email string) (domain.NaturalPerson, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.NaturalPerson), args.Error(1)
}

// --- Username / Password ---

func TestValidateUsername(t *testing.T) {
	got, err := validator.ValidateUsername("anderson")
	assert.NoError(t, err)
	assert.Equal(t, "anderson", got)

	_, err = validator.ValidateUsername("   ")
	assertFieldError(t, err, "username", "Username is empty.")

	for _, in := range []string{"ander son", "ander\tson", " anderson", "anderson\n"} {
		_, err = validator.ValidateUsername(in)
		assertFieldError(t, err, "username", "Invalid username format. Spaces are not allowed.")
	}
}

func TestValidatePassword(t *testing.T) {
	got, err := validator.ValidatePassword(" secret ")
	assert.NoError(t, err)
	assert.Equal(t, " secret ", got)

	_, err = validator.ValidatePassword("")
	assertFieldError(t, err, "password", "Password is empty.")
}

// --- Name ---

func TestValidateName_Lengths(t *testing.T) {
	_, err := validator.ValidateName("Ann")
	assertFieldError(t, err, "name", "Name must be at least 4 characters long.")

	got, err := validator.ValidateName("Anna")
	assert.NoError(t, err)
	assert.Equal(t, "Anna", got)

	_, err = validator.ValidateName(strings.Repeat("a", 50))
	assert.NoError(t, err)

	_, err = validator.ValidateName(strings.Repeat("a", 51))
	assertFieldError(t, err, "name", "Name cannot exceed 50 characters.")

	_, err = validator.ValidateName("  ")
	assertFieldError(t, err, "name", "Name is empty.")
}

func TestValidateName_CountsRunes(t *testing.T) {
	// "João" tem 4 caracteres e 5 bytes.
	_, err := validator.ValidateName("João")
	assert.NoError(t, err)

	_, err = validator.ValidateName(strings.Repeat("ç", 50))
	assert.NoError(t, err)
}

// --- Email ---

func TestValidateEmail_Syntax(t *testing.T) {
	ctx := context.Background()

	_, err := validator.ValidateEmail(ctx, nil, "", nil)
	assertFieldError(t, err, "email", "E-mail is empty.")

	for _, in := range []string{"plainaddress", "a@b", "@example.com", "john..doe@example.com", ".john@example.com", "john@exa mple.com"} {
		_, err = validator.ValidateEmail(ctx, nil, in, nil)
		assertFieldError(t, err, "email", "Invalid e-mail.")
	}

	got, err := validator.ValidateEmail(ctx, nil, "john.doe+tag@mail.example.com.br", nil)
	assert.NoError(t, err)
	assert.Equal(t, "john.doe+tag@mail.example.com.br", got)
}

func TestValidateEmail_DomainForms(t *testing.T) {
	ctx := context.Background()

	for _, in := range []string{"user@localhost", "user@[127.0.0.1]", "user@[::1]", "user@café.com.br", "user@example.xn--p1ai"} {
		_, err := validator.ValidateEmail(ctx, nil, in, nil)
		assert.NoError(t, err, in)
	}

	for _, in := range []string{"user@[300.0.0.1]", "user@[nope]", "user@-example.com", "user@example.c-"} {
		_, err := validator.ValidateEmail(ctx, nil, in, nil)
		assertFieldError(t, err, "email", "Invalid e-mail.")
	}
}

func TestValidateEmail_MaxLength(t *testing.T) {
	ctx := context.Background()
	suffix := "@example.com"

	atLimit := strings.Repeat("a", validator.EmailMaxLength-len(suffix)) + suffix
	require.Len(t, atLimit, 50)
	_, err := validator.ValidateEmail(ctx, nil, atLimit, nil)
	assert.NoError(t, err)

	_, err = validator.ValidateEmail(ctx, nil, "a"+atLimit, nil)
	assertFieldError(t, err, "email", "E-mail cannot exceed 50 characters.")

	_, err = validator.ValidateEmail(ctx, nil, strings.Repeat("a", 60)+suffix, nil)
	assertFieldError(t, err, "email", "E-mail cannot exceed 50 characters.")
}

func TestValidateEmail_FreeAddress(t *testing.T) {
	finder := new(MockEmailFinder)
	finder.On("FindByEmail", mock.Anything, "new@example.com").
		Return(domain.NaturalPerson{}, apperror.NewNotFoundError("none"))

	got, err := validator.ValidateEmail(context.Background(), finder, "new@example.com", nil)

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", got)
	finder.AssertExpectations(t)
}

func TestValidateEmail_TakenByAnotherRecord(t *testing.T) {
	owner := domain.NaturalPerson{Person: domain.Person{ID: "owner", Email: "Taken@Example.com"}}
	other := &domain.NaturalPerson{Person: domain.Person{ID: "other"}}

	finder := new(MockEmailFinder)
	finder.On("FindByEmail", mock.Anything, "taken@example.com").Return(owner, nil)

	// Sem instância (criação)
	_, err := validator.ValidateEmail(context.Background(), finder, "taken@example.com", nil)
	assertFieldError(t, err, "email", "E-mail already is registered.")

	// Editando um registro diferente
	_, err = validator.ValidateEmail(context.Background(), finder, "taken@example.com", other)
	assertFieldError(t, err, "email", "E-mail already is registered.")
}

func TestValidateEmail_OwnRecordOnEdit(t *testing.T) {
	owner := domain.NaturalPerson{Person: domain.Person{ID: "owner", Email: "taken@example.com"}}

	finder := new(MockEmailFinder)
	finder.On("FindByEmail", mock.Anything, "TAKEN@example.com").Return(owner, nil)

	got, err := validator.ValidateEmail(context.Background(), finder, "TAKEN@example.com", &owner)
	assert.NoError(t, err)
	assert.Equal(t, "TAKEN@example.com", got)
}

func TestValidateEmail_FinderFailureIsNotAValidationError(t *testing.T) {
	finder := new(MockEmailFinder)
	dbErr := apperror.NewDBError("falha", errors.New("connection refused"))
	finder.On("FindByEmail", mock.Anything, "x@example.com").Return(domain.NaturalPerson{}, dbErr)

	_, err := validator.ValidateEmail(context.Background(), finder, "x@example.com", nil)

	assert.Equal(t, dbErr, err)
	var fe *apperror.ValidationError
	assert.False(t, errors.As(err, &fe))
}

// --- CPF ---

func TestValidateCPF_Valid(t *testing.T) {
	for in, want := range map[string]string{
		"529.982.247-25": "52998224725",
		"52998224725":    "52998224725",
		"111.444.777-35": "11144477735",
		"390533447-05":   "39053344705",
	} {
		got, err := validator.ValidateCPF(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestValidateCPF_Invalid(t *testing.T) {
	_, err := validator.ValidateCPF(" ")
	assertFieldError(t, err, "cpf", "CPF is empty.")

	for _, in := range []string{
		"111.111.111-11", // dígitos repetidos
		"000.000.000-00",
		"529.982.247-26", // último dígito errado
		"529.982.247-15", // penúltimo dígito errado
		"5299822472",     // 10 dígitos
		"529-982-247.25", // pontuação fora do padrão
		"abc.def.ghi-jk",
	} {
		_, err := validator.ValidateCPF(in)
		assertFieldError(t, err, "cpf", "Invalid CPF.")
	}
}

func TestValidateCPF_PunctuationInsensitive(t *testing.T) {
	for _, formatted := range []string{"529.982.247-25", "111.444.777-35", "529.982.247-24", "123.456.789-09", "123.456.789-10"} {
		_, errFormatted := validator.ValidateCPF(formatted)
		_, errDigits := validator.ValidateCPF(validator.OnlyDigits(formatted))
		assert.Equal(t, errFormatted == nil, errDigits == nil, formatted)
	}
}

func TestIsValidCPFNumber(t *testing.T) {
	assert.True(t, validator.IsValidCPFNumber("52998224725"))
	assert.True(t, validator.IsValidCPFNumber("079.630.857-82"))
	assert.False(t, validator.IsValidCPFNumber("22222222222"))
	assert.False(t, validator.IsValidCPFNumber("529982247"))
	assert.False(t, validator.IsValidCPFNumber(""))
}

// --- Gender ---

func TestValidateGender(t *testing.T) {
	for in, want := range map[string]domain.Gender{"M": "M", "f": "F", " o ": "O"} {
		got, err := validator.ValidateGender(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := validator.ValidateGender("")
	assertFieldError(t, err, "gender", "Gender is empty.")

	_, err = validator.ValidateGender("X")
	assertFieldError(t, err, "gender", "Invalid gender.")
}

// --- Birthday ---

func TestValidateBirthday_AgeBoundary(t *testing.T) {
	clock := validator.FixedClock(time.Date(2024, time.June, 15, 13, 45, 0, 0, time.UTC))

	got, err := validator.ValidateBirthday("15/06/2006", clock)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2006, time.June, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = validator.ValidateBirthday("2006-06-15", clock)
	assert.NoError(t, err)

	// 17 anos e 364 dias
	_, err = validator.ValidateBirthday("16/06/2006", clock)
	assertFieldError(t, err, "birthday", "Invalid birthday.")

	_, err = validator.ValidateBirthday("01/01/1980", clock)
	assert.NoError(t, err)
}

func TestValidateBirthday_LeapDay(t *testing.T) {
	clock := validator.FixedClock(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))

	_, err := validator.ValidateBirthday("01/03/2006", clock)
	assert.NoError(t, err)

	_, err = validator.ValidateBirthday("02/03/2006", clock)
	assertFieldError(t, err, "birthday", "Invalid birthday.")
}

func TestValidateBirthday_EmptyOrMalformed(t *testing.T) {
	clock := validator.FixedClock(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))

	_, err := validator.ValidateBirthday("", clock)
	assertFieldError(t, err, "birthday", "Birthday is empty.")

	_, err = validator.ValidateBirthday("31/02/1990", clock)
	assertFieldError(t, err, "birthday", "Invalid birthday.")
}

// --- Status ---

func TestValidateStatus(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "True": true, "on": true, "1": true, "false": false, "False": false, "0": false} {
		got, err := validator.ValidateStatus(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := validator.ValidateStatus("")
	assertFieldError(t, err, "status", "Status is empty.")

	_, err = validator.ValidateStatus("maybe")
	assertFieldError(t, err, "status", "Status must be True or False.")
}

// --- Picture / Description ---

func TestValidatePicture(t *testing.T) {
	got, err := validator.ValidatePicture("person/natural/a.png")
	assert.NoError(t, err)
	assert.Equal(t, "person/natural/a.png", got)

	_, err = validator.ValidatePicture("")
	assertFieldError(t, err, "picture", "Picture is empty.")
}

// pngHeader é a assinatura de um arquivo PNG.
const pngHeader = "\x89PNG\r\n\x1a\n"

func TestValidatePictureUpload_Image(t *testing.T) {
	content := pngHeader + strings.Repeat("x", 600)
	up := &domain.Upload{Filename: "foto.JPEG", ContentType: "application/octet-stream", Size: int64(len(content)), Content: strings.NewReader(content)}

	got, err := validator.ValidatePictureUpload(up)

	require.NoError(t, err)
	assert.Equal(t, "foto.png", got.Filename)
	assert.Equal(t, "image/png", got.ContentType)
	body, err := io.ReadAll(got.Content)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
}

func TestValidatePictureUpload_NotAnImage(t *testing.T) {
	for name, content := range map[string]string{
		"payload.html": "<script>alert(1)</script>",
		"notes.txt":    "apenas texto",
		"fake.png":     "png",
	} {
		_, err := validator.ValidatePictureUpload(&domain.Upload{Filename: name, ContentType: "image/png", Content: strings.NewReader(content)})
		assertFieldError(t, err, "picture", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
}

func TestValidatePictureUpload_Empty(t *testing.T) {
	_, err := validator.ValidatePictureUpload(nil)
	assertFieldError(t, err, "picture", "Picture is empty.")

	_, err = validator.ValidatePictureUpload(&domain.Upload{Filename: "vazio.png", Content: strings.NewReader("")})
	assertFieldError(t, err, "picture", "Picture is empty.")
}

func TestValidateDescription(t *testing.T) {
	_, err := validator.ValidateDescription("")
	assert.NoError(t, err)

	_, err = validator.ValidateDescription(strings.Repeat("d", 200))
	assert.NoError(t, err)

	_, err = validator.ValidateDescription(strings.Repeat("d", 201))
	assertFieldError(t, err, "description", "Description cannot exceed 200 characters.")
}

// --- Income range ---

func TestValidateIncomeRange(t *testing.T) {
	got, err := validator.ValidateIncomeRange("R$ 1.500,75")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1500.75")))

	_, err = validator.ValidateIncomeRange("")
	assertFieldError(t, err, "income_range", "Income range is empty.")

	for _, in := range []string{"1500", "abc", "-1,00", "R$ 10.000.000.000,00"} {
		_, err = validator.ValidateIncomeRange(in)
		assertFieldError(t, err, "income_range", "Invalid income range.")
	}
}
