package service

import (
	"context"
	"io"
	"time"

	"career-compass-be/internal/dto"
	"career-compass-be/internal/entity"
	"career-compass-be/internal/repository/contract"
	"career-compass-be/internal/repository/specification"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/assistant"
	"career-compass-be/pkg/events"
	"career-compass-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// nopLogger keeps test output clean.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// MockUnitOfWork hands out the mock repositories and records the
// transaction boundary calls.
type MockUnitOfWork struct {
	mock.Mock
	Sessions *MockChatSessionRepository
	Messages *MockChatMessageRepository
	Usages   *MockDailyUsageRepository
	Uploads  *MockUploadRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Sessions: new(MockChatSessionRepository),
		Messages: new(MockChatMessageRepository),
		Usages:   new(MockDailyUsageRepository),
		Uploads:  new(MockUploadRepository),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	return m.Called().Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	return m.Called().Error(0)
}

func (m *MockUnitOfWork) UserRepository() contract.UserRepository { return nil }

func (m *MockUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return m.Sessions
}

func (m *MockUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return m.Messages
}

func (m *MockUnitOfWork) DailyUsageRepository() contract.DailyUsageRepository {
	return m.Usages
}

func (m *MockUnitOfWork) UploadRepository() contract.UploadRepository {
	return m.Uploads
}

type mockUowFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *mockUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type MockChatSessionRepository struct {
	mock.Mock
}

func (m *MockChatSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockChatSessionRepository) Update(ctx context.Context, session *entity.ChatSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockChatSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockChatSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ChatSession), args.Error(1)
}

func (m *MockChatSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatSession), args.Error(1)
}

func (m *MockChatSessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

type MockChatMessageRepository struct {
	mock.Mock
}

func (m *MockChatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockChatMessageRepository) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	return m.Called(ctx, messages).Error(0)
}

func (m *MockChatMessageRepository) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	return m.Called(ctx, sessionId).Error(0)
}

func (m *MockChatMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ChatMessage), args.Error(1)
}

func (m *MockChatMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

type MockDailyUsageRepository struct {
	mock.Mock
}

func (m *MockDailyUsageRepository) FirstOrCreate(ctx context.Context, userId uuid.UUID, day time.Time) (*entity.DailyUsage, error) {
	args := m.Called(ctx, userId, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DailyUsage), args.Error(1)
}

func (m *MockDailyUsageRepository) Update(ctx context.Context, usage *entity.DailyUsage) error {
	return m.Called(ctx, usage).Error(0)
}

func (m *MockDailyUsageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DailyUsage, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DailyUsage), args.Error(1)
}

func (m *MockDailyUsageRepository) FindActiveCooldowns(ctx context.Context) ([]*entity.DailyUsage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DailyUsage), args.Error(1)
}

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, record *entity.UploadRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockUploadRepository) DetachFromSession(ctx context.Context, sessionId uuid.UUID) error {
	return m.Called(ctx, sessionId).Error(0)
}

func (m *MockUploadRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadRecord, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.UploadRecord), args.Error(1)
}

func (m *MockUploadRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, history []assistant.Message, options ...assistant.Option) (*assistant.Completion, error) {
	args := m.Called(ctx, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assistant.Completion), args.Error(1)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, options ...assistant.Option) (*assistant.Completion, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assistant.Completion), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(userId uuid.UUID, payload dto.UsageEventPayload) {
	m.Called(userId, payload)
}

type MockPublisherService struct {
	mock.Mock
}

func (m *MockPublisherService) Publish(ctx context.Context, payload []byte) error {
	return m.Called(ctx, payload).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key string, r io.Reader) (*storage.StoredObject, error) {
	args := m.Called(ctx, key, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.StoredObject), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
