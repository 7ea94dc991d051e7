package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/reports"
)

// Reporter invoca las funciones de agregación definidas en las migraciones.
type Reporter struct {
	db *sql.DB
}

func NewReporter(db *sql.DB) *Reporter {
	return &Reporter{db: db}
}

func (r *Reporter) DailySleep(ctx context.Context, babyID string, day time.Time) (reports.DailySleep, error) {
	out := reports.DailySleep{BabyID: babyID, Date: day.Format("2006-01-02")}
	if !validID(babyID) {
		return out, babies.ErrNotFound
	}
	from, to := reports.DayBounds(day)

	var sessions []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT total_sleep_minutes, total_sleep_sessions, longest_sleep_minutes, average_sleep_minutes, sleep_sessions
		FROM daily_sleep_report($1, $2, $3)
	`, babyID, from, to).Scan(
		&out.TotalMinutes,
		&out.TotalSessions,
		&out.LongestMinutes,
		&out.AverageMinutes,
		&sessions,
	)
	if err != nil {
		return reports.DailySleep{}, err
	}
	if err := json.Unmarshal(sessions, &out.Sessions); err != nil {
		return reports.DailySleep{}, err
	}
	return out, nil
}

func (r *Reporter) DailyFeeding(ctx context.Context, babyID string, day time.Time) (reports.DailyFeeding, error) {
	out := reports.DailyFeeding{BabyID: babyID, Date: day.Format("2006-01-02")}
	if !validID(babyID) {
		return out, babies.ErrNotFound
	}
	from, to := reports.DayBounds(day)

	var details []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT total_feedings, breastfeeding_count, bottle_count, total_bottle_ml, total_breastfeeding_minutes, feeding_details
		FROM daily_feeding_report($1, $2, $3)
	`, babyID, from, to).Scan(
		&out.TotalFeedings,
		&out.BreastfeedingCount,
		&out.BottleCount,
		&out.TotalBottleML,
		&out.TotalBreastfeedingMinutes,
		&details,
	)
	if err != nil {
		return reports.DailyFeeding{}, err
	}
	if err := json.Unmarshal(details, &out.Details); err != nil {
		return reports.DailyFeeding{}, err
	}
	return out, nil
}

func (r *Reporter) CurrentStatus(ctx context.Context, babyID string) (reports.CurrentStatus, error) {
	if !validID(babyID) {
		return reports.CurrentStatus{}, babies.ErrNotFound
	}

	var (
		out                   = reports.CurrentStatus{BabyID: babyID}
		status                string
		since, lastFeeding    sql.NullTime
		lastFeedingType       sql.NullString
		hoursSinceLastFeeding sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT baby_name, current_status, status_since, last_feeding, last_feeding_type, hours_since_last_feeding::float8
		FROM baby_current_status($1)
	`, babyID).Scan(
		&out.BabyName,
		&status,
		&since,
		&lastFeeding,
		&lastFeedingType,
		&hoursSinceLastFeeding,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return reports.CurrentStatus{}, babies.ErrNotFound
	}
	if err != nil {
		return reports.CurrentStatus{}, err
	}

	out.Status = reports.Status(status)
	out.Since = timeOrNil(since)
	out.LastFeeding = timeOrNil(lastFeeding)
	out.LastFeedingType = lastFeedingType.String
	out.HoursSinceLastFeeding = floatOrNil(hoursSinceLastFeeding)
	return out, nil
}

func (r *Reporter) LatestGrowth(ctx context.Context, babyID string) (reports.GrowthPoint, bool, error) {
	if !validID(babyID) {
		return reports.GrowthPoint{}, false, babies.ErrNotFound
	}

	var (
		p            reports.GrowthPoint
		height, head sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT record_id, weight_grams, height_cm::float8, head_circumference_cm::float8, measurement_date, age_days
		FROM get_latest_growth($1)
	`, babyID).Scan(
		&p.RecordID,
		&p.WeightGrams,
		&height,
		&head,
		&p.MeasuredAt,
		&p.AgeDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return reports.GrowthPoint{}, false, nil
	}
	if err != nil {
		return reports.GrowthPoint{}, false, err
	}
	p.HeightCM = floatOrNil(height)
	p.HeadCircumferenceCM = floatOrNil(head)
	return p, true, nil
}

func (r *Reporter) GrowthReport(ctx context.Context, babyID string, from, to *time.Time) (reports.GrowthReport, error) {
	if !validID(babyID) {
		return reports.GrowthReport{}, babies.ErrNotFound
	}

	var (
		out                  = reports.GrowthReport{BabyID: babyID}
		first, latest        sql.NullTime
		heightGain, headGain sql.NullFloat64
		avgPerMonth          sql.NullFloat64
		measurements         []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT total_measurements, first_measurement_date, latest_measurement_date, weight_gain_grams,
		       height_gain_cm::float8, head_growth_cm::float8, average_weight_gain_per_month::float8, measurements
		FROM growth_report($1, $2, $3)
	`, babyID, nullTime(from), nullTime(to)).Scan(
		&out.TotalMeasurements,
		&first,
		&latest,
		&out.WeightGainGrams,
		&heightGain,
		&headGain,
		&avgPerMonth,
		&measurements,
	)
	if err != nil {
		return reports.GrowthReport{}, err
	}
	if err := json.Unmarshal(measurements, &out.Measurements); err != nil {
		return reports.GrowthReport{}, err
	}

	out.FirstMeasurement = timeOrNil(first)
	out.LatestMeasurement = timeOrNil(latest)
	out.HeightGainCM = floatOrNil(heightGain)
	out.HeadGrowthCM = floatOrNil(headGain)
	out.AverageWeightGainPerMonth = floatOrNil(avgPerMonth)
	return out, nil
}
