package validator

import "time"

// Clock fornece a data corrente para as regras que dependem do dia (idade mínima).
type Clock interface {
	Today() time.Time
}

// SystemClock usa o relógio do sistema.
type SystemClock struct{}

// Today devolve a data corrente à meia-noite UTC.
func (SystemClock) Today() time.Time {
	return dateOf(time.Now())
}

// FixedClock devolve sempre a mesma data. Útil em testes e reprocessamentos.
type FixedClock time.Time

// Today devolve a data fixa à meia-noite UTC.
func (c FixedClock) Today() time.Time {
	return dateOf(time.Time(c))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
