package contract

import (
	"context"
	"time"

	"career-compass-be/internal/entity"
	"career-compass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DailyUsageRepository interface {
	// FirstOrCreate returns the usage row for the user on the given day,
	// creating a zeroed row when the day has no record yet.
	FirstOrCreate(ctx context.Context, userId uuid.UUID, day time.Time) (*entity.DailyUsage, error)
	Update(ctx context.Context, usage *entity.DailyUsage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DailyUsage, error)
	// FindActiveCooldowns returns rows whose cooldown is set, expired or not.
	FindActiveCooldowns(ctx context.Context) ([]*entity.DailyUsage, error)
}
