package service

import (
	"context"
	"time"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/dto"
	"career-compass-be/internal/repository/specification"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/quota"

	"github.com/google/uuid"
)

type IUsageService interface {
	GetStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error)
}

type usageService struct {
	uowFactory unitofwork.RepositoryFactory
	tracker    *quota.Tracker
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory, tracker *quota.Tracker) IUsageService {
	return &usageService{
		uowFactory: uowFactory,
		tracker:    tracker,
	}
}

func (s *usageService) GetStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	usage, err := uow.DailyUsageRepository().FirstOrCreate(ctx, userId, now)
	if err != nil {
		return nil, err
	}

	snapshot := quota.DailySnapshot{TokensUsed: usage.TokensUsed, CooldownEndsAt: usage.CooldownEndsAt}
	if settled, changed := s.tracker.Settle(snapshot); changed {
		snapshot = settled
		usage.TokensUsed = settled.TokensUsed
		usage.CooldownEndsAt = settled.CooldownEndsAt
		if err := uow.DailyUsageRepository().Update(ctx, usage); err != nil {
			return nil, err
		}
	}

	pdfCount, err := uow.UploadRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedOnDay{Day: now},
		specification.OfUploadKind{Kind: constant.UploadKindPdf},
	)
	if err != nil {
		return nil, err
	}
	imageCount, err := uow.UploadRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedOnDay{Day: now},
		specification.OfUploadKind{Kind: constant.UploadKindImage},
	)
	if err != nil {
		return nil, err
	}

	res := tokenUsageStatus(snapshot, now)
	res.PdfUploadsToday = int(pdfCount)
	res.ImageUploadsToday = int(imageCount)
	return &res, nil
}
