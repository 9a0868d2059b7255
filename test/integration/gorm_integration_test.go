package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"career-compass-be/internal/entity"
	"career-compass-be/internal/repository/specification"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormWiring(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "failed to connect to DB")

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.DailyUsageRepository())
	assert.NotNil(t, uow.UploadRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	t.Run("session and message round trip", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		owner := &entity.User{
			Id:       userId,
			Email:    userId.String() + "@integration.test",
			FullName: "Integration Check",
			Role:     entity.UserRoleYouth,
			Status:   entity.UserStatusActive,
		}
		require.NoError(t, uow.UserRepository().Create(ctx, owner))
		defer uow.UserRepository().Delete(ctx, userId)

		found, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
		require.NoError(t, err)
		assert.Equal(t, owner.Email, found.Email)

		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "integration check",
			Category:  "general",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))
		defer uow.ChatSessionRepository().Delete(ctx, session.Id)

		msg := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			Role:          "user",
			Content:       "hello",
			CreatedAt:     time.Now(),
		}
		require.NoError(t, uow.ChatMessageRepository().Create(ctx, msg))
		defer uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id)

		count, err := uow.ChatMessageRepository().Count(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
		)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("daily usage row is unique per user and day", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()
		day := time.Now()

		first, err := uow.DailyUsageRepository().FirstOrCreate(ctx, userId, day)
		require.NoError(t, err)

		second, err := uow.DailyUsageRepository().FirstOrCreate(ctx, userId, day)
		require.NoError(t, err)

		assert.Equal(t, first.Id, second.Id)
	})
}
