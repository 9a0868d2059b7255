package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/dto"
	"career-compass-be/internal/entity"
	"career-compass-be/internal/pkg/logger"
	"career-compass-be/internal/repository/specification"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/events"
	"career-compass-be/pkg/quota"
	"career-compass-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUploadService interface {
	StoreUpload(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, file *multipart.FileHeader) (*dto.UploadResponse, error)
	ListUploads(ctx context.Context, userId uuid.UUID) (*dto.ListUploadsResponse, error)
}

type uploadService struct {
	uowFactory unitofwork.RepositoryFactory
	tracker    *quota.Tracker
	storage    storage.Storage
	eventBus   IEventBus
	logger     logger.ILogger
}

func NewUploadService(
	uowFactory unitofwork.RepositoryFactory,
	tracker *quota.Tracker,
	store storage.Storage,
	eventBus IEventBus,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		uowFactory: uowFactory,
		tracker:    tracker,
		storage:    store,
		eventBus:   eventBus,
		logger:     log,
	}
}

// pdf and image extensions the gate accepts. Anything else is rejected
// before it costs quota.
var uploadKindByExt = map[string]string{
	".pdf":  constant.UploadKindPdf,
	".png":  constant.UploadKindImage,
	".jpg":  constant.UploadKindImage,
	".jpeg": constant.UploadKindImage,
	".webp": constant.UploadKindImage,
}

func (s *uploadService) StoreUpload(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	kind, ok := uploadKindByExt[ext]
	if !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, "only pdf, png, jpg and webp files are accepted")
	}

	maxBytes := int64(constant.MaxPdfUploadBytes)
	if kind == constant.UploadKindImage {
		maxBytes = constant.MaxImageUploadBytes
	}
	if file.Size > maxBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large (max %d MB)", maxBytes/(1024*1024)))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Quota check comes before any byte touches storage.
	today := time.Now()
	pdfCount, err := uow.UploadRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedOnDay{Day: today},
		specification.OfUploadKind{Kind: constant.UploadKindPdf},
	)
	if err != nil {
		return nil, err
	}
	imageCount, err := uow.UploadRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedOnDay{Day: today},
		specification.OfUploadKind{Kind: constant.UploadKindImage},
	)
	if err != nil {
		return nil, err
	}

	if decision := s.tracker.CanUpload(int(pdfCount), int(imageCount), kind); !decision.Allowed {
		resetAfter := time.Until(decision.ResetAfter).Seconds()
		if resetAfter < 0 {
			resetAfter = 0
		}
		return nil, &dto.QuotaExceededError{
			Kind:       dto.QuotaKindDailyUploads,
			Limit:      decision.Limit,
			Used:       decision.Used,
			ResetAfter: resetAfter,
		}
	}

	if sessionId != nil {
		session, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: *sessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	recordId := uuid.New()
	key := fmt.Sprintf("%s/%s%s", userId.String(), recordId.String(), ext)
	stored, err := s.storage.Save(ctx, key, src)
	if err != nil {
		return nil, err
	}

	record := &entity.UploadRecord{
		Id:            recordId,
		UserId:        userId,
		ChatSessionId: sessionId,
		Kind:          kind,
		FileName:      file.Filename,
		StoredPath:    stored.Path,
		PublicURL:     stored.PublicURL,
		SizeBytes:     file.Size,
		Metadata: map[string]interface{}{
			"original_name": file.Filename,
			"content_type":  file.Header.Get("Content-Type"),
		},
		CreatedAt: time.Now(),
	}
	if err := uow.UploadRepository().Create(ctx, record); err != nil {
		// The row is the source of truth for quota; orphaned files are
		// cheaper than uncounted uploads.
		if cleanupErr := s.storage.Delete(ctx, key); cleanupErr != nil {
			s.logger.Warn("Upload", "Failed to clean up stored file", map[string]interface{}{
				"key":   key,
				"error": cleanupErr.Error(),
			})
		}
		return nil, err
	}

	if s.eventBus != nil {
		evt := events.BaseEvent{
			Type: events.TypeUploadStored,
			Data: map[string]interface{}{
				"user_id":   userId.String(),
				"upload_id": record.Id.String(),
				"kind":      kind,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventBus.Publish(ctx, evt); err != nil {
			s.logger.Warn("Upload", "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.UploadResponse{
		Id:        record.Id,
		Kind:      record.Kind,
		FileName:  record.FileName,
		SizeBytes: record.SizeBytes,
		StoredAt:  record.CreatedAt,
	}, nil
}

func (s *uploadService) ListUploads(ctx context.Context, userId uuid.UUID) (*dto.ListUploadsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	records, err := uow.UploadRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.UploadRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	uploads := make([]dto.UploadResponse, 0, len(records))
	for _, r := range records {
		uploads = append(uploads, dto.UploadResponse{
			Id:        r.Id,
			Kind:      r.Kind,
			FileName:  r.FileName,
			SizeBytes: r.SizeBytes,
			StoredAt:  r.CreatedAt,
		})
	}

	return &dto.ListUploadsResponse{
		Uploads: uploads,
		Total:   total,
	}, nil
}
