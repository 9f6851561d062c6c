package validator

import "strings"

// OnlyDigits remove todo caractere que não seja dígito ASCII.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPFNumber aplica o algoritmo dos dígitos verificadores do CPF.
// Aceita o número com ou sem pontuação; caracteres não numéricos são ignorados.
func IsValidCPFNumber(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}
	// Sequências repetidas ("00000000000", "11111111111"...) passam no cálculo mas não são CPFs válidos.
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}

	d := make([]int, 11)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	return d[9] == checkDigit(d[:9], 10) && d[10] == checkDigit(d[:10], 11)
}

// checkDigit calcula um dígito verificador com pesos decrescentes a partir de firstWeight.
func checkDigit(digits []int, firstWeight int) int {
	sum := 0
	for i, v := range digits {
		sum += v * (firstWeight - i)
	}
	return (sum * 10 % 11) % 10
}
