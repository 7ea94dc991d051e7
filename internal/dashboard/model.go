package dashboard

import (
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/reports"
)

// BabyCard es un bebé activo con su estado actual. Degraded indica que
// alguno de los reportes falló y la tarjeta quedó parcial.
type BabyCard struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Gender    string    `json:"gender,omitempty"`
	AgeDays   int       `json:"age_days"`
	AgeLabel  string    `json:"age_label"`

	Status            *reports.CurrentStatus `json:"status,omitempty"`
	LatestGrowth      *reports.GrowthPoint   `json:"latest_growth,omitempty"`
	SleepMinutesToday int                    `json:"sleep_minutes_today"`
	Degraded          bool                   `json:"degraded,omitempty"`
}

type Totals struct {
	Babies          int `json:"total_babies"`
	Caregivers      int `json:"total_caregivers"`
	FeedingsToday   int `json:"today_feedings"`
	SleepHoursToday int `json:"today_sleep_hours"`
	WalksToday      int `json:"today_walks"`
}

type Overview struct {
	Babies []BabyCard `json:"babies"`
	Totals Totals     `json:"stats"`
}

// ActivityItem es un registro listo para mostrar en las listas por tipo.
type ActivityItem struct {
	activities.RecordResponse
	BabyName      string `json:"baby_name,omitempty"`
	CaregiverName string `json:"caregiver_name,omitempty"`
}

type DiaperStats struct {
	Total  int                           `json:"total"`
	ByType map[activities.DiaperType]int `json:"by_type"`
}

// Period es la ventana del gráfico.
// @Enum day, week, month
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(s string) (Period, bool) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, true
	case "":
		return PeriodWeek, true
	default:
		return "", false
	}
}

type Bucket struct {
	Start  time.Time                     `json:"start"`
	Label  string                        `json:"label"`
	Total  int                           `json:"total"`
	ByType map[activities.DiaperType]int `json:"by_type"`
}

type DiaperView struct {
	Today  DiaperStats    `json:"today"`
	Period Period         `json:"period"`
	Chart  []Bucket       `json:"chart"`
	Recent []ActivityItem `json:"recent"`
}
