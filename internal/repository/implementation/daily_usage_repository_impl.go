package implementation

import (
	"context"
	"errors"
	"time"

	"career-compass-be/internal/entity"
	"career-compass-be/internal/mapper"
	"career-compass-be/internal/model"
	"career-compass-be/internal/repository/contract"
	"career-compass-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DailyUsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewDailyUsageRepository(db *gorm.DB) contract.DailyUsageRepository {
	return &DailyUsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *DailyUsageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DailyUsageRepositoryImpl) FirstOrCreate(ctx context.Context, userId uuid.UUID, day time.Time) (*entity.DailyUsage, error) {
	usageDate := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var m model.DailyUsage
	err := r.db.WithContext(ctx).
		Where(&model.DailyUsage{UserId: userId, UsageDate: usageDate}).
		Attrs(&model.DailyUsage{Id: uuid.New(), TokensUsed: 0}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.DailyUsageToEntity(&m), nil
}

func (r *DailyUsageRepositoryImpl) Update(ctx context.Context, usage *entity.DailyUsage) error {
	m := r.mapper.DailyUsageToModel(usage)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*usage = *r.mapper.DailyUsageToEntity(m)
	return nil
}

func (r *DailyUsageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DailyUsage, error) {
	var m model.DailyUsage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DailyUsageToEntity(&m), nil
}

func (r *DailyUsageRepositoryImpl) FindActiveCooldowns(ctx context.Context) ([]*entity.DailyUsage, error) {
	var models []*model.DailyUsage
	err := r.db.WithContext(ctx).
		Where("cooldown_ends_at IS NOT NULL").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.DailyUsage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DailyUsageToEntity(m)
	}
	return entities, nil
}
