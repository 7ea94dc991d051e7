package activities

import (
	"fmt"
	"strings"
	"time"
)

// recordRequest es el formulario completo de cualquier tipo de registro.
// Solo se leen los campos del tipo de la ruta.
type recordRequest struct {
	BabyID    string     `json:"baby_id"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Notes     *string    `json:"notes"`

	// sleep, walk, growth
	Location string `json:"location"`

	// feeding
	FeedingType     string `json:"feeding_type"`
	BreastSide      string `json:"breast_side"`
	AmountML        *int   `json:"amount_ml"`
	FoodDescription string `json:"food_description"`

	// diaper
	DiaperType     string `json:"diaper_type"`
	Consistency    string `json:"consistency"`
	Color          string `json:"color"`
	SmellIntensity int    `json:"smell_intensity"`

	// growth
	WeightGrams         int      `json:"weight_grams"`
	HeightCM            *float64 `json:"height_cm"`
	HeadCircumferenceCM *float64 `json:"head_circumference_cm"`
}

func (req recordRequest) detail(kind Kind) (Detail, error) {
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	switch kind {
	case KindSleep:
		return Sleep{Location: SleepLocation(lower(req.Location))}, nil
	case KindWalk:
		return Walk{Location: WalkLocation(lower(req.Location))}, nil
	case KindFeeding:
		return Feeding{
			Type:            FeedingType(lower(req.FeedingType)),
			Side:            BreastSide(lower(req.BreastSide)),
			AmountML:        req.AmountML,
			FoodDescription: strings.TrimSpace(req.FoodDescription),
		}, nil
	case KindDiaper:
		return Diaper{
			Type:           DiaperType(lower(req.DiaperType)),
			Consistency:    Consistency(lower(req.Consistency)),
			Color:          DiaperColor(lower(req.Color)),
			SmellIntensity: req.SmellIntensity,
		}, nil
	case KindGrowth:
		return Growth{
			WeightGrams:         req.WeightGrams,
			HeightCM:            req.HeightCM,
			HeadCircumferenceCM: req.HeadCircumferenceCM,
			Location:            strings.TrimSpace(req.Location),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
}

// RecordResponse es la forma JSON de un registro (compartida con dashboard).
type RecordResponse struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	BabyID          string     `json:"baby_id"`
	CaregiverID     string     `json:"caregiver_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	InProgress      bool       `json:"in_progress"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Notes           string     `json:"notes,omitempty"`

	Location            string   `json:"location,omitempty"`
	FeedingType         string   `json:"feeding_type,omitempty"`
	BreastSide          string   `json:"breast_side,omitempty"`
	AmountML            *int     `json:"amount_ml,omitempty"`
	FoodDescription     string   `json:"food_description,omitempty"`
	DiaperType          string   `json:"diaper_type,omitempty"`
	Consistency         string   `json:"consistency,omitempty"`
	Color               string   `json:"color,omitempty"`
	SmellIntensity      int      `json:"smell_intensity,omitempty"`
	WeightGrams         int      `json:"weight_grams,omitempty"`
	HeightCM            *float64 `json:"height_cm,omitempty"`
	HeadCircumferenceCM *float64 `json:"head_circumference_cm,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(r Record) RecordResponse {
	out := RecordResponse{
		ID:          r.ID,
		Kind:        r.Kind,
		BabyID:      r.BabyID,
		CaregiverID: r.CaregiverID,
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
		InProgress:  r.InProgress(),
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if d, ok := r.DurationMinutes(); ok {
		out.DurationMinutes = &d
	}

	switch d := r.Detail.(type) {
	case Sleep:
		out.Location = string(d.Location)
	case Walk:
		out.Location = string(d.Location)
	case Feeding:
		out.FeedingType = string(d.Type)
		out.BreastSide = string(d.Side)
		out.AmountML = d.AmountML
		out.FoodDescription = d.FoodDescription
	case Diaper:
		out.DiaperType = string(d.Type)
		out.Consistency = string(d.Consistency)
		out.Color = string(d.Color)
		out.SmellIntensity = d.SmellIntensity
	case Growth:
		out.Location = d.Location
		out.WeightGrams = d.WeightGrams
		out.HeightCM = d.HeightCM
		out.HeadCircumferenceCM = d.HeadCircumferenceCM
	}
	return out
}
