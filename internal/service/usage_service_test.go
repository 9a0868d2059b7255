package service

import (
	"context"
	"testing"
	"time"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/entity"
	"career-compass-be/pkg/quota"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetStatus(t *testing.T) {
	uow := NewMockUnitOfWork()
	svc := NewUsageService(&mockUowFactory{uow: uow}, quota.NewTracker(quota.DefaultPolicy()))
	ctx := context.Background()
	userId := uuid.New()

	t.Run("active cooldown reported", func(t *testing.T) {
		ends := time.Now().Add(45 * time.Minute)
		usage := &entity.DailyUsage{UserId: userId, TokensUsed: 100500, CooldownEndsAt: &ends}

		uow.Usages.On("FirstOrCreate", ctx, userId, mock.Anything).Return(usage, nil).Once()
		uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(1), nil).Once() // pdfs
		uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(2), nil).Once() // images

		res, err := svc.GetStatus(ctx, userId)

		assert.NoError(t, err)
		assert.Equal(t, 100500, res.TokensUsed)
		assert.Equal(t, constant.DailyTokenBudget, res.TokenBudget)
		assert.True(t, res.CooldownActive)
		assert.Greater(t, res.CooldownRemaining, 0.0)
		assert.Equal(t, 1, res.PdfUploadsToday)
		assert.Equal(t, 2, res.ImageUploadsToday)
	})

	t.Run("elapsed cooldown settles on read", func(t *testing.T) {
		ends := time.Now().Add(-time.Minute)
		usage := &entity.DailyUsage{UserId: userId, TokensUsed: 100500, CooldownEndsAt: &ends}

		uow.Usages.On("FirstOrCreate", ctx, userId, mock.Anything).Return(usage, nil).Once()
		uow.Usages.On("Update", ctx, mock.MatchedBy(func(u *entity.DailyUsage) bool {
			return u.TokensUsed == 0 && u.CooldownEndsAt == nil
		})).Return(nil).Once()
		uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(0), nil).Twice()

		res, err := svc.GetStatus(ctx, userId)

		assert.NoError(t, err)
		assert.Equal(t, 0, res.TokensUsed)
		assert.False(t, res.CooldownActive)
		uow.Usages.AssertExpectations(t)
	})
}
