package activities

import "strings"

// Kind es el tipo de registro; cada uno vive en su propia tabla.
// @Enum sleep, feeding, walk, diaper, growth
type Kind string

const (
	KindSleep   Kind = "sleep"
	KindFeeding Kind = "feeding"
	KindWalk    Kind = "walk"
	KindDiaper  Kind = "diaper"
	KindGrowth  Kind = "growth"
)

var AllKinds = []Kind{KindSleep, KindFeeding, KindWalk, KindDiaper, KindGrowth}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// TimedActivity son las actividades con inicio/fin que se manejan con start/stop.
type TimedActivity string

const (
	TimedSleep         TimedActivity = "sleep"
	TimedWalk          TimedActivity = "walk"
	TimedBreastfeeding TimedActivity = "breastfeeding"
)

func ParseTimedActivity(s string) (TimedActivity, bool) {
	switch a := TimedActivity(strings.ToLower(strings.TrimSpace(s))); a {
	case TimedSleep, TimedWalk, TimedBreastfeeding:
		return a, true
	default:
		return "", false
	}
}

// Kind devuelve la tabla donde vive la actividad.
func (a TimedActivity) Kind() Kind {
	switch a {
	case TimedSleep:
		return KindSleep
	case TimedWalk:
		return KindWalk
	default:
		return KindFeeding
	}
}

// Matches reporta si r es un registro de esta actividad.
func (a TimedActivity) Matches(r Record) bool {
	if r.Kind != a.Kind() {
		return false
	}
	if a == TimedBreastfeeding {
		f, ok := r.Detail.(Feeding)
		return ok && f.Type == FeedingBreast
	}
	return true
}

// TimedActivityOf devuelve la actividad temporizada de r (ok=false si r es instantáneo).
func TimedActivityOf(r Record) (TimedActivity, bool) {
	for _, a := range []TimedActivity{TimedSleep, TimedWalk, TimedBreastfeeding} {
		if a.Matches(r) {
			return a, true
		}
	}
	return "", false
}
