package contract

import (
	"context"

	"career-compass-be/internal/entity"
	"career-compass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UploadRepository interface {
	Create(ctx context.Context, record *entity.UploadRecord) error
	DetachFromSession(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
