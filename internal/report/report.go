// Package report calcula as estatísticas de renda de um snapshot de pessoas físicas.
//
// Um Report é criado por requisição a partir de uma coleção já materializada. Os agregados
// (máximo, mínimo e média) são calculados uma única vez em New; alterações posteriores
// na base não são observadas.
package report

import (
	"github.com/shopspring/decimal"

	"gopeople/internal/domain"
	"gopeople/internal/pkg/currency"
)

// Report guarda o snapshot e os agregados de renda.
// Para um snapshot vazio todos os agregados valem zero e as consultas devolvem coleções vazias.
type Report struct {
	people []domain.NaturalPerson
	max    decimal.Decimal
	min    decimal.Decimal
	avg    decimal.Decimal
	sum    decimal.Decimal
}

// New copia people e calcula os agregados. A ordem da coleção é preservada nas consultas.
func New(people []domain.NaturalPerson) *Report {
	r := &Report{
		people: append([]domain.NaturalPerson(nil), people...),
		max:    decimal.Zero,
		min:    decimal.Zero,
		avg:    decimal.Zero,
		sum:    decimal.Zero,
	}
	if len(r.people) == 0 {
		return r
	}

	r.max = r.people[0].IncomeRange
	r.min = r.people[0].IncomeRange
	for _, p := range r.people {
		r.sum = r.sum.Add(p.IncomeRange)
		if p.IncomeRange.GreaterThan(r.max) {
			r.max = p.IncomeRange
		}
		if p.IncomeRange.LessThan(r.min) {
			r.min = p.IncomeRange
		}
	}
	r.avg = r.sum.Div(decimal.NewFromInt(int64(len(r.people))))
	return r
}

func (r *Report) Len() int { return len(r.people) }

func (r *Report) MaxIncome() decimal.Decimal { return r.max }

func (r *Report) MinIncome() decimal.Decimal { return r.min }

// AvgIncome é a média aritmética sem arredondamento para duas casas,
// de modo que PeopleAtAverage só inclui quem tem exatamente a média.
func (r *Report) AvgIncome() decimal.Decimal { return r.avg }

// TotalIncomeSum devolve a soma das rendas; zero para snapshot vazio.
func (r *Report) TotalIncomeSum() decimal.Decimal { return r.sum }

// HighestIncomePerson devolve o primeiro registro com a maior renda.
func (r *Report) HighestIncomePerson() (domain.NaturalPerson, bool) {
	return r.first(func(p domain.NaturalPerson) bool { return p.IncomeRange.Equal(r.max) })
}

// LowestIncomePerson devolve o primeiro registro com a menor renda.
func (r *Report) LowestIncomePerson() (domain.NaturalPerson, bool) {
	return r.first(func(p domain.NaturalPerson) bool { return p.IncomeRange.Equal(r.min) })
}

func (r *Report) PeopleAboveAverage() []domain.NaturalPerson {
	return r.filter(func(p domain.NaturalPerson) bool { return p.IncomeRange.GreaterThan(r.avg) })
}

func (r *Report) PeopleBelowAverage() []domain.NaturalPerson {
	return r.filter(func(p domain.NaturalPerson) bool { return p.IncomeRange.LessThan(r.avg) })
}

func (r *Report) PeopleAtAverage() []domain.NaturalPerson {
	return r.filter(func(p domain.NaturalPerson) bool { return p.IncomeRange.Equal(r.avg) })
}

// CountByGender conta os registros do gênero g. Nunca falha.
func (r *Report) CountByGender(g domain.Gender) int {
	n := 0
	for _, p := range r.people {
		if p.Gender == g {
			n++
		}
	}
	return n
}

// Summary monta a visão usada pela tela de relatório, com valores formatados em reais.
func (r *Report) Summary() domain.ReportSummary {
	s := domain.ReportSummary{
		Total:              r.Len(),
		MaxIncome:          currency.Format(r.max),
		MinIncome:          currency.Format(r.min),
		AvgIncome:          currency.Format(r.avg),
		PeopleAboveAverage: r.PeopleAboveAverage(),
		PeopleBelowAverage: r.PeopleBelowAverage(),
		PeopleAtAverage:    r.PeopleAtAverage(),
		MaleCount:          r.CountByGender(domain.GenderMale),
		FemaleCount:        r.CountByGender(domain.GenderFemale),
		OtherCount:         r.CountByGender(domain.GenderOther),
		TotalIncome:        currency.Format(r.sum),
	}
	if p, ok := r.HighestIncomePerson(); ok {
		s.HighestIncomePerson = &p
	}
	if p, ok := r.LowestIncomePerson(); ok {
		s.LowestIncomePerson = &p
	}
	return s
}

func (r *Report) first(match func(domain.NaturalPerson) bool) (domain.NaturalPerson, bool) {
	for _, p := range r.people {
		if match(p) {
			return p, true
		}
	}
	return domain.NaturalPerson{}, false
}

func (r *Report) filter(match func(domain.NaturalPerson) bool) []domain.NaturalPerson {
	out := make([]domain.NaturalPerson, 0)
	for _, p := range r.people {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}
