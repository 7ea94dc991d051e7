package babies

import (
	"fmt"
	"time"
)

// Age es la edad en días con el desglose que muestra la UI.
// Meses de 30 días y años de 365, sin calendario.
type Age struct {
	Days   int
	Years  int
	Months int
}

func AgeAt(birth, now time.Time) Age {
	b := time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := int(n.Sub(b).Hours() / 24)
	if days < 0 {
		days = 0
	}

	a := Age{Days: days}
	switch {
	case days < 30:
	case days < 365:
		a.Months = days / 30
	default:
		a.Years = days / 365
		a.Months = (days % 365) / 30
	}
	return a
}

func (a Age) String() string {
	switch {
	case a.Days < 30:
		return plural(a.Days, "day", "days")
	case a.Years == 0:
		return plural(a.Months, "month", "months")
	case a.Months == 0:
		return plural(a.Years, "year", "years")
	default:
		return plural(a.Years, "year", "years") + " and " + plural(a.Months, "month", "months")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
