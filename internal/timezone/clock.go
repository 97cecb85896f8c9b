package timezone

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock devolve o relógio do sistema no fuso do negócio.
type SystemClock struct {
	Loc *time.Location
}

func NewSystemClock(tz string) SystemClock {
	return SystemClock{Loc: Location(tz)}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Loc)
}

// FixedClock é usado em testes.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}
