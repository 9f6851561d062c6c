// Package currency converte valores em reais entre texto livre e decimal de ponto fixo.
//
// A entrada segue a convenção brasileira: "." separa milhares e "," separa os centavos.
// "R$ 1.234,56", "1234,56" e "R$1234,56" produzem o mesmo valor.
package currency

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Places é o número de casas decimais exigido.
const Places = 2

var (
	// ErrInvalidFormat indica texto que não representa um valor com exatamente duas casas decimais.
	ErrInvalidFormat = errors.New("currency: invalid format")

	// ErrOutOfRange indica valor fora de [0, MaxValue].
	ErrOutOfRange = errors.New("currency: value out of range")

	// MaxValue é o maior valor aceito (12 dígitos, 2 decimais).
	MaxValue = decimal.RequireFromString("9999999999.99")

	symbols   = strings.NewReplacer("R", "", "$", "", " ", "")
	canonical = regexp.MustCompile(`^\d+\.\d{2}$`)
)

// Normalize remove símbolos e separadores de milhar e troca a vírgula decimal por ponto.
func Normalize(text string) string {
	s := symbols.Replace(text)
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}

// Parse converte o texto em decimal. O resultado sempre tem exatamente duas casas.
func Parse(text string) (decimal.Decimal, error) {
	s := Normalize(text)
	if !canonical.MatchString(s) {
		return decimal.Zero, ErrInvalidFormat
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidFormat
	}
	if d.IsNegative() || d.GreaterThan(MaxValue) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// Format devolve o valor para exibição, e.g. "R$ 1234,56". É o inverso de Parse.
func Format(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(Places), ".", ",", 1)
}
