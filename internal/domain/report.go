package domain

// ReportSummary é a visão consolidada do relatório de renda.
// Valores monetários já vêm formatados em reais ("R$ 1234,56").
type ReportSummary struct {
	Total               int             `json:"total"`
	HighestIncomePerson *NaturalPerson  `json:"highest_income_person"`
	LowestIncomePerson  *NaturalPerson  `json:"lowest_income_person"`
	MaxIncome           string          `json:"max_income"`
	MinIncome           string          `json:"min_income"`
	AvgIncome           string          `json:"avg_income"`
	PeopleAboveAverage  []NaturalPerson `json:"people_above_avg"`
	PeopleBelowAverage  []NaturalPerson `json:"people_below_avg"`
	PeopleAtAverage     []NaturalPerson `json:"people_equal_avg"`
	MaleCount           int             `json:"male_count"`
	FemaleCount         int             `json:"female_count"`
	OtherCount          int             `json:"other_count"`
	TotalIncome         string          `json:"total_income"`
}
