package reports

import (
	"context"
	"time"
)

// Reporter son las funciones de agregación del backend.
// day se interpreta en su propia zona horaria.
type Reporter interface {
	DailySleep(ctx context.Context, babyID string, day time.Time) (DailySleep, error)
	DailyFeeding(ctx context.Context, babyID string, day time.Time) (DailyFeeding, error)
	CurrentStatus(ctx context.Context, babyID string) (CurrentStatus, error)

	// LatestGrowth devuelve ok=false si el bebé no tiene mediciones.
	LatestGrowth(ctx context.Context, babyID string) (GrowthPoint, bool, error)
	GrowthReport(ctx context.Context, babyID string, from, to *time.Time) (GrowthReport, error)
}
