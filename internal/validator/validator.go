// Package validator concentra as regras de validação dos campos de pessoa e de login.
//
// Cada função valida um único campo, devolve o valor normalizado e, na primeira regra
// violada, um *errors.ValidationError com o identificador do campo. Não há estado
// compartilhado: as funções podem ser chamadas concorrentemente.
package validator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/netip"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"gopeople/internal/domain"
	apperror "gopeople/internal/errors"
	"gopeople/internal/pkg/currency"
)

// Identificadores de campo usados em ValidationError.Field.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldCPF         = "cpf"
	FieldGender      = "gender"
	FieldBirthday    = "birthday"
	FieldStatus      = "status"
	FieldPicture     = "picture"
	FieldIncomeRange = "income_range"
	FieldDescription = "description"
)

const (
	NameMinLength        = 4
	NameMaxLength        = 50
	EmailMaxLength       = 50
	DescriptionMaxLength = 200
	MinimumAge           = 18
)

// Mensagens reutilizadas pela camada de persistência ao traduzir violações de unicidade.
const (
	MsgEmailTaken = "E-mail already is registered."
	MsgCPFTaken   = "CPF already is registered."
)

// DateLayouts são os formatos aceitos para datas: o do formulário (dd/mm/aaaa) e o ISO.
var DateLayouts = []string{"02/01/2006", "2006-01-02"}

const emailLabel = `[a-z0-9\x{00a1}-\x{ffff}](?:[a-z0-9\x{00a1}-\x{ffff}-]{0,61}[a-z0-9\x{00a1}-\x{ffff}])?`

var (
	cpfPattern = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)

	// Parte local em dot-atom; domínio com rótulos IDN e TLD alfabético ou punycode.
	emailUserPattern    = regexp.MustCompile("(?i)^[-!#$%&'*+/=?^_`{}|~0-9a-z]+(?:\\.[-!#$%&'*+/=?^_`{}|~0-9a-z]+)*$")
	emailDomainPattern  = regexp.MustCompile(`(?i)^(?:` + emailLabel + `\.)+([a-z\x{00a1}-\x{ffff}-]{2,63}|xn--[a-z0-9]{1,59})\.?$`)
	emailLiteralPattern = regexp.MustCompile(`(?i)^\[([a-f0-9:.]+)\]$`)
)

// emailDomainAllowlist são domínios sem ponto aceitos como destino.
var emailDomainAllowlist = []string{"localhost"}

// EmailFinder é a parte do repositório usada na checagem de e-mail duplicado.
// Deve comparar sem diferenciar maiúsculas e devolver NotFoundError quando não houver registro.
type EmailFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.NaturalPerson, error)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func fail(field, msg string) error {
	return apperror.NewFieldError(field, msg)
}

// ValidateUsername exige um nome de usuário sem nenhum caractere de espaço.
func ValidateUsername(raw string) (string, error) {
	if isBlank(raw) {
		return "", fail(FieldUsername, "Username is empty.")
	}
	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return "", fail(FieldUsername, "Invalid username format. Spaces are not allowed.")
	}
	return raw, nil
}

func ValidatePassword(raw string) (string, error) {
	if isBlank(raw) {
		return "", fail(FieldPassword, "Password is empty.")
	}
	return raw, nil
}

// ValidateName exige entre 4 e 50 caracteres (contados em runes).
func ValidateName(raw string) (string, error) {
	if isBlank(raw) {
		return "", fail(FieldName, "Name is empty.")
	}
	n := utf8.RuneCountInString(raw)
	if n < NameMinLength {
		return "", fail(FieldName, "Name must be at least 4 characters long.")
	}
	if n > NameMaxLength {
		return "", fail(FieldName, "Name cannot exceed 50 characters.")
	}
	return raw, nil
}

// ValidateEmail verifica a sintaxe e se o e-mail já pertence a outro registro.
// instance é o registro em edição (nil na criação): o próprio e-mail dele é aceito.
// A checagem é só uma pré-validação; a unicidade definitiva fica na restrição do banco.
// Erros de infraestrutura do finder são devolvidos sem conversão.
func ValidateEmail(ctx context.Context, finder EmailFinder, raw string, instance *domain.NaturalPerson) (string, error) {
	if isBlank(raw) {
		return "", fail(FieldEmail, "E-mail is empty.")
	}
	if utf8.RuneCountInString(raw) > EmailMaxLength {
		return "", fail(FieldEmail, "E-mail cannot exceed 50 characters.")
	}
	if !isValidEmail(raw) {
		return "", fail(FieldEmail, "Invalid e-mail.")
	}
	if finder == nil {
		return raw, nil
	}

	owner, err := finder.FindByEmail(ctx, raw)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return raw, nil
		}
		return "", err
	}
	if instance == nil || instance.ID != owner.ID {
		return "", fail(FieldEmail, MsgEmailTaken)
	}
	return raw, nil
}

// isValidEmail aceita domínios com rótulos internacionalizados, "localhost"
// e literais de IP entre colchetes (user@[127.0.0.1]).
func isValidEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	user, host := s[:at], s[at+1:]
	if !emailUserPattern.MatchString(user) {
		return false
	}

	for _, allowed := range emailDomainAllowlist {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	if m := emailLiteralPattern.FindStringSubmatch(host); m != nil {
		addr, err := netip.ParseAddr(m[1])
		return err == nil && addr.Zone() == ""
	}

	m := emailDomainPattern.FindStringSubmatch(host)
	if m == nil {
		return false
	}
	tld := m[1]
	return !strings.HasPrefix(tld, "-") && !strings.HasSuffix(tld, "-")
}

// ValidateCPF aceita "52998224725" ou "529.982.247-25" e devolve só os dígitos.
func ValidateCPF(raw string) (string, error) {
	if isBlank(raw) {
		return "", fail(FieldCPF, "CPF is empty.")
	}
	if !cpfPattern.MatchString(raw) {
		return "", fail(FieldCPF, "Invalid CPF.")
	}
	digits := OnlyDigits(raw)
	if !IsValidCPFNumber(digits) {
		return "", fail(FieldCPF, "Invalid CPF.")
	}
	return digits, nil
}

// ValidateGender aceita m/f/o em qualquer caixa e devolve a letra maiúscula.
func ValidateGender(raw string) (domain.Gender, error) {
	if isBlank(raw) {
		return "", fail(FieldGender, "Gender is empty.")
	}
	g := domain.Gender(strings.ToUpper(strings.TrimSpace(raw)))
	switch g {
	case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
		return g, nil
	}
	return "", fail(FieldGender, "Invalid gender.")
}

// ParseDate interpreta a data nos formatos de DateLayouts.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateBirthday exige idade mínima de 18 anos na data do clock.
// A idade é contada por ano/mês/dia de calendário: quem nasceu exatamente 18 anos antes de hoje passa.
// Para hoje = 29/02, o limite normaliza para 01/03 do ano de referência.
func ValidateBirthday(raw string, clock Clock) (time.Time, error) {
	if isBlank(raw) {
		return time.Time{}, fail(FieldBirthday, "Birthday is empty.")
	}
	birthday, ok := ParseDate(raw)
	if !ok {
		return time.Time{}, fail(FieldBirthday, "Invalid birthday.")
	}
	if clock == nil {
		clock = SystemClock{}
	}

	limit := clock.Today().AddDate(-MinimumAge, 0, 0)
	if birthday.After(limit) {
		return time.Time{}, fail(FieldBirthday, "Invalid birthday.")
	}
	return birthday, nil
}

// ValidateStatus aceita os literais booleanos usados por formulários e APIs.
func ValidateStatus(raw string) (bool, error) {
	if isBlank(raw) {
		return false, fail(FieldStatus, "Status is empty.")
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	}
	return false, fail(FieldStatus, "Status must be True or False.")
}

// ValidatePicture exige uma referência de imagem (nome do upload ou arquivo já armazenado).
func ValidatePicture(ref string) (string, error) {
	if isBlank(ref) {
		return "", fail(FieldPicture, "Picture is empty.")
	}
	return ref, nil
}

// pictureTypes são os tipos de imagem aceitos, detectados pelo conteúdo, e a extensão gravada.
var pictureTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// sniffLen é quanto http.DetectContentType examina.
const sniffLen = 512

// ValidatePictureUpload confere pelos primeiros bytes que o arquivo é uma imagem.
// O nome e o ContentType declarados pelo cliente são ignorados: o upload devolvido
// traz o tipo detectado, a extensão correspondente e o leitor de volta ao início.
func ValidatePictureUpload(upload *domain.Upload) (*domain.Upload, error) {
	if upload == nil || upload.Content == nil {
		return nil, fail(FieldPicture, "Picture is empty.")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fail(FieldPicture, "Invalid picture.")
	}
	if n == 0 {
		return nil, fail(FieldPicture, "Picture is empty.")
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := pictureTypes[contentType]
	if !ok {
		return nil, fail(FieldPicture, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	base := strings.TrimSuffix(path.Base(upload.Filename), path.Ext(upload.Filename))
	if base == "" || base == "." || base == "/" {
		base = "picture"
	}
	return &domain.Upload{
		Filename:    base + ext,
		ContentType: contentType,
		Size:        upload.Size,
		Content:     io.MultiReader(bytes.NewReader(head), upload.Content),
	}, nil
}

// ValidateIncomeRange converte o texto em reais para decimal de duas casas.
// Qualquer falha de formato ou de faixa gera a mesma mensagem genérica.
func ValidateIncomeRange(raw string) (decimal.Decimal, error) {
	if isBlank(raw) {
		return decimal.Zero, fail(FieldIncomeRange, "Income range is empty.")
	}
	value, err := currency.Parse(raw)
	if err != nil {
		return decimal.Zero, fail(FieldIncomeRange, "Invalid income range.")
	}
	return value, nil
}

// ValidateDescription aceita texto vazio; o limite é de 200 caracteres.
func ValidateDescription(raw string) (string, error) {
	if utf8.RuneCountInString(raw) > DescriptionMaxLength {
		return "", fail(FieldDescription, "Description cannot exceed 200 characters.")
	}
	return raw, nil
}
