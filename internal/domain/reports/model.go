package reports

import "time"

type SleepSession struct {
	RecordID        string     `json:"record_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Location        string     `json:"location,omitempty"`
}

// DailySleep resume el sueño de un día. Solo las sesiones terminadas suman minutos.
type DailySleep struct {
	BabyID         string         `json:"baby_id"`
	Date           string         `json:"date"`
	TotalMinutes   int            `json:"total_sleep_minutes"`
	TotalSessions  int            `json:"total_sleep_sessions"`
	LongestMinutes int            `json:"longest_sleep_minutes"`
	AverageMinutes int            `json:"average_sleep_minutes"`
	Sessions       []SleepSession `json:"sleep_sessions"`
}

func (d DailySleep) Hours() float64 {
	return float64(d.TotalMinutes) / 60
}

type FeedingDetail struct {
	RecordID        string    `json:"record_id"`
	At              time.Time `json:"at"`
	Type            string    `json:"feeding_type"`
	AmountML        *int      `json:"amount_ml,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Side            string    `json:"breast_side,omitempty"`
}

type DailyFeeding struct {
	BabyID                    string          `json:"baby_id"`
	Date                      string          `json:"date"`
	TotalFeedings             int             `json:"total_feedings"`
	BreastfeedingCount        int             `json:"breastfeeding_count"`
	BottleCount               int             `json:"bottle_count"`
	TotalBottleML             int             `json:"total_bottle_ml"`
	TotalBreastfeedingMinutes int             `json:"total_breastfeeding_minutes"`
	Details                   []FeedingDetail `json:"feeding_details"`
}

// Status
// @Enum sleeping, walking, awake
type Status string

const (
	StatusSleeping Status = "sleeping"
	StatusWalking  Status = "walking"
	StatusAwake    Status = "awake"
)

type CurrentStatus struct {
	BabyID                string     `json:"baby_id"`
	BabyName              string     `json:"baby_name"`
	Status                Status     `json:"current_status"`
	Since                 *time.Time `json:"status_since,omitempty"`
	LastFeeding           *time.Time `json:"last_feeding,omitempty"`
	LastFeedingType       string     `json:"last_feeding_type,omitempty"`
	HoursSinceLastFeeding *float64   `json:"hours_since_last_feeding,omitempty"`
}

type GrowthPoint struct {
	RecordID            string    `json:"record_id"`
	MeasuredAt          time.Time `json:"measured_at"`
	AgeDays             int       `json:"age_days"`
	WeightGrams         int       `json:"weight_grams"`
	HeightCM            *float64  `json:"height_cm,omitempty"`
	HeadCircumferenceCM *float64  `json:"head_circumference_cm,omitempty"`
}

type GrowthReport struct {
	BabyID                    string        `json:"baby_id"`
	TotalMeasurements         int           `json:"total_measurements"`
	FirstMeasurement          *time.Time    `json:"first_measurement_date,omitempty"`
	LatestMeasurement         *time.Time    `json:"latest_measurement_date,omitempty"`
	WeightGainGrams           int           `json:"weight_gain_grams"`
	HeightGainCM              *float64      `json:"height_gain_cm,omitempty"`
	HeadGrowthCM              *float64      `json:"head_growth_cm,omitempty"`
	AverageWeightGainPerMonth *float64      `json:"average_weight_gain_per_month,omitempty"`
	Measurements              []GrowthPoint `json:"measurements"`
}
