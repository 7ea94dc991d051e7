package activities

import (
	"fmt"
	"strings"
)

// Detail es la parte específica de cada tipo de registro.
// Es una unión cerrada: solo los tipos de este paquete la implementan.
type Detail interface {
	Kind() Kind
	Validate() error
	isDetail()
}

// ---- sleep ----

type SleepLocation string

const (
	SleepCrib       SleepLocation = "crib"
	SleepLap        SleepLocation = "lap"
	SleepStroller   SleepLocation = "stroller"
	SleepParentsBed SleepLocation = "parents_bed"
	SleepSofa       SleepLocation = "sofa"
	SleepOther      SleepLocation = "other"
)

type Sleep struct {
	Location SleepLocation
}

func (Sleep) Kind() Kind { return KindSleep }
func (Sleep) isDetail()  {}

func (s Sleep) Validate() error {
	switch s.Location {
	case "", SleepCrib, SleepLap, SleepStroller, SleepParentsBed, SleepSofa, SleepOther:
		return nil
	}
	return fmt.Errorf("%w: unknown sleep location %q", ErrInvalidInput, s.Location)
}

// ---- walk ----

type WalkLocation string

const (
	WalkSquare WalkLocation = "square"
	WalkPark   WalkLocation = "park"
	WalkMall   WalkLocation = "mall"
	WalkStreet WalkLocation = "street"
	WalkOther  WalkLocation = "other"
)

type Walk struct {
	Location WalkLocation
}

func (Walk) Kind() Kind { return KindWalk }
func (Walk) isDetail()  {}

func (w Walk) Validate() error {
	switch w.Location {
	case "", WalkSquare, WalkPark, WalkMall, WalkStreet, WalkOther:
		return nil
	}
	return fmt.Errorf("%w: unknown walk location %q", ErrInvalidInput, w.Location)
}

// ---- feeding ----

type FeedingType string

const (
	FeedingBreast FeedingType = "breast"
	FeedingBottle FeedingType = "bottle"
	FeedingPuree  FeedingType = "puree"
	FeedingFruit  FeedingType = "fruit"
	FeedingWater  FeedingType = "water"
	FeedingJuice  FeedingType = "juice"
	FeedingOther  FeedingType = "other"
)

type BreastSide string

const (
	SideLeft  BreastSide = "left"
	SideRight BreastSide = "right"
	SideBoth  BreastSide = "both"
)

func ParseBreastSide(s string) (BreastSide, bool) {
	switch b := BreastSide(strings.ToLower(strings.TrimSpace(s))); b {
	case SideLeft, SideRight, SideBoth:
		return b, true
	default:
		return "", false
	}
}

type Feeding struct {
	Type            FeedingType
	Side            BreastSide // solo breast
	AmountML        *int
	FoodDescription string
}

func (Feeding) Kind() Kind { return KindFeeding }
func (Feeding) isDetail()  {}

func (f Feeding) Validate() error {
	switch f.Type {
	case FeedingBreast:
		if _, ok := ParseBreastSide(string(f.Side)); !ok {
			return fmt.Errorf("%w: breast feeding requires side left, right or both", ErrInvalidInput)
		}
	case FeedingBottle:
		if f.AmountML == nil || *f.AmountML <= 0 {
			return fmt.Errorf("%w: bottle feeding requires amount_ml > 0", ErrInvalidInput)
		}
	case FeedingPuree, FeedingFruit, FeedingWater, FeedingJuice, FeedingOther:
	default:
		return fmt.Errorf("%w: unknown feeding type %q", ErrInvalidInput, f.Type)
	}
	if f.Type != FeedingBreast && f.Side != "" {
		return fmt.Errorf("%w: side only applies to breast feeding", ErrInvalidInput)
	}
	if f.AmountML != nil && *f.AmountML <= 0 {
		return fmt.Errorf("%w: amount_ml must be > 0", ErrInvalidInput)
	}
	return nil
}

// ---- diaper ----

type DiaperType string

const (
	DiaperGas    DiaperType = "gas"
	DiaperUrine  DiaperType = "urine"
	DiaperLiquid DiaperType = "liquid"
	DiaperMixed  DiaperType = "mixed"
	DiaperSolid  DiaperType = "solid"
)

func ParseDiaperType(s string) (DiaperType, bool) {
	switch d := DiaperType(strings.ToLower(strings.TrimSpace(s))); d {
	case DiaperGas, DiaperUrine, DiaperLiquid, DiaperMixed, DiaperSolid:
		return d, true
	default:
		return "", false
	}
}

type Consistency string

const (
	ConsistencyLiquid Consistency = "liquid"
	ConsistencyPasty  Consistency = "pasty"
	ConsistencySolid  Consistency = "solid"
	ConsistencyDry    Consistency = "dry"
)

type DiaperColor string

const (
	ColorYellow DiaperColor = "yellow"
	ColorBrown  DiaperColor = "brown"
	ColorGreen  DiaperColor = "green"
	ColorWhite  DiaperColor = "white"
	ColorOther  DiaperColor = "other"
)

type Diaper struct {
	Type           DiaperType
	Consistency    Consistency // obligatorio solo en solid
	Color          DiaperColor // solo solid
	SmellIntensity int         // 0 = no informado, 1..5
}

func (Diaper) Kind() Kind { return KindDiaper }
func (Diaper) isDetail()  {}

func (d Diaper) Validate() error {
	if _, ok := ParseDiaperType(string(d.Type)); !ok {
		return fmt.Errorf("%w: unknown diaper type %q", ErrInvalidInput, d.Type)
	}
	if d.Type == DiaperSolid {
		switch d.Consistency {
		case ConsistencyLiquid, ConsistencyPasty, ConsistencySolid, ConsistencyDry:
		case "":
			return fmt.Errorf("%w: solid diaper requires consistency", ErrInvalidInput)
		default:
			return fmt.Errorf("%w: unknown consistency %q", ErrInvalidInput, d.Consistency)
		}
		switch d.Color {
		case "", ColorYellow, ColorBrown, ColorGreen, ColorWhite, ColorOther:
		default:
			return fmt.Errorf("%w: unknown color %q", ErrInvalidInput, d.Color)
		}
	} else if d.Consistency != "" || d.Color != "" {
		return fmt.Errorf("%w: consistency and color only apply to solid diapers", ErrInvalidInput)
	}
	if d.SmellIntensity < 0 || d.SmellIntensity > 5 {
		return fmt.Errorf("%w: smell_intensity must be 1..5", ErrInvalidInput)
	}
	return nil
}

// DefaultSmellIntensity es la intensidad que usa el registro rápido.
// solid no tiene default: requiere el formulario completo.
func DefaultSmellIntensity(t DiaperType) (int, bool) {
	switch t {
	case DiaperGas, DiaperLiquid, DiaperMixed:
		return 2, true
	case DiaperUrine:
		return 1, true
	default:
		return 0, false
	}
}

// ---- growth ----

type Growth struct {
	WeightGrams         int
	HeightCM            *float64
	HeadCircumferenceCM *float64
	Location            string
}

func (Growth) Kind() Kind { return KindGrowth }
func (Growth) isDetail()  {}

func (g Growth) Validate() error {
	if g.WeightGrams <= 0 {
		return fmt.Errorf("%w: weight_grams must be > 0", ErrInvalidInput)
	}
	if g.HeightCM != nil && *g.HeightCM <= 0 {
		return fmt.Errorf("%w: height_cm must be > 0", ErrInvalidInput)
	}
	if g.HeadCircumferenceCM != nil && *g.HeadCircumferenceCM <= 0 {
		return fmt.Errorf("%w: head_circumference_cm must be > 0", ErrInvalidInput)
	}
	return nil
}
