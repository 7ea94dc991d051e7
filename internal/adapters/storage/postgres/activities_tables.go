package postgres

import (
	"database/sql"

	"baby-care-tracker/internal/domain/activities"
)

// recordTable describe cómo mapea cada Kind a su tabla.
// end vacío = tabla de registros instantáneos.
type recordTable struct {
	name  string
	start string
	end   string

	// columnas propias del detalle, en el orden de values/scan
	detail []string
	values func(r activities.Record) []any
	scan   func() ([]any, func() activities.Detail)
}

var recordTables = map[activities.Kind]recordTable{
	activities.KindSleep: {
		name:   "sleep_records",
		start:  "sleep_start",
		end:    "sleep_end",
		detail: []string{"sleep_location"},
		values: func(r activities.Record) []any {
			d, _ := r.Detail.(activities.Sleep)
			return []any{nullString(string(d.Location))}
		},
		scan: func() ([]any, func() activities.Detail) {
			var loc sql.NullString
			return []any{&loc}, func() activities.Detail {
				return activities.Sleep{Location: activities.SleepLocation(loc.String)}
			}
		},
	},
	activities.KindWalk: {
		name:   "walk_records",
		start:  "walk_start",
		end:    "walk_end",
		detail: []string{"location"},
		values: func(r activities.Record) []any {
			d, _ := r.Detail.(activities.Walk)
			return []any{nullString(string(d.Location))}
		},
		scan: func() ([]any, func() activities.Detail) {
			var loc sql.NullString
			return []any{&loc}, func() activities.Detail {
				return activities.Walk{Location: activities.WalkLocation(loc.String)}
			}
		},
	},
	activities.KindFeeding: {
		name:   "feeding_records",
		start:  "feeding_time",
		end:    "breastfeeding_end",
		detail: []string{"feeding_type", "breastfeeding_start", "breast_side", "amount_ml", "food_description"},
		values: func(r activities.Record) []any {
			d, _ := r.Detail.(activities.Feeding)
			var bfStart sql.NullTime
			if d.Type == activities.FeedingBreast {
				bfStart = sql.NullTime{Time: r.StartedAt, Valid: true}
			}
			return []any{
				string(d.Type),
				bfStart,
				nullString(string(d.Side)),
				nullInt(d.AmountML),
				nullString(d.FoodDescription),
			}
		},
		scan: func() ([]any, func() activities.Detail) {
			var (
				typ        string
				bfStart    sql.NullTime
				side, food sql.NullString
				amount     sql.NullInt64
			)
			return []any{&typ, &bfStart, &side, &amount, &food}, func() activities.Detail {
				return activities.Feeding{
					Type:            activities.FeedingType(typ),
					Side:            activities.BreastSide(side.String),
					AmountML:        intOrNil(amount),
					FoodDescription: food.String,
				}
			}
		},
	},
	activities.KindDiaper: {
		name:   "diaper_records",
		start:  "recorded_at",
		detail: []string{"diaper_type", "consistency", "color", "smell_intensity"},
		values: func(r activities.Record) []any {
			d, _ := r.Detail.(activities.Diaper)
			var smell sql.NullInt64
			if d.SmellIntensity > 0 {
				smell = sql.NullInt64{Int64: int64(d.SmellIntensity), Valid: true}
			}
			return []any{
				string(d.Type),
				nullString(string(d.Consistency)),
				nullString(string(d.Color)),
				smell,
			}
		},
		scan: func() ([]any, func() activities.Detail) {
			var (
				typ         string
				cons, color sql.NullString
				smell       sql.NullInt64
			)
			return []any{&typ, &cons, &color, &smell}, func() activities.Detail {
				return activities.Diaper{
					Type:           activities.DiaperType(typ),
					Consistency:    activities.Consistency(cons.String),
					Color:          activities.DiaperColor(color.String),
					SmellIntensity: int(smell.Int64),
				}
			}
		},
	},
	activities.KindGrowth: {
		name:   "growth_records",
		start:  "measurement_date",
		detail: []string{"weight_grams", "height_cm", "head_circumference_cm", "measurement_location"},
		values: func(r activities.Record) []any {
			d, _ := r.Detail.(activities.Growth)
			return []any{
				d.WeightGrams,
				nullFloat(d.HeightCM),
				nullFloat(d.HeadCircumferenceCM),
				nullString(d.Location),
			}
		},
		scan: func() ([]any, func() activities.Detail) {
			var (
				weight       int
				height, head sql.NullFloat64
				loc          sql.NullString
			)
			return []any{&weight, &height, &head, &loc}, func() activities.Detail {
				return activities.Growth{
					WeightGrams:         weight,
					HeightCM:            floatOrNil(height),
					HeadCircumferenceCM: floatOrNil(head),
					Location:            loc.String,
				}
			}
		},
	},
}
