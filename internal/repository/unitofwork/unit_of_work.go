package unitofwork

import (
	"context"

	"career-compass-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	DailyUsageRepository() contract.DailyUsageRepository
	UploadRepository() contract.UploadRepository
}
