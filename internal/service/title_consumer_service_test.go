package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/dto"
	"career-compass-be/internal/entity"
	"career-compass-be/pkg/assistant"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "Choosing a trade", sanitizeTitle(`  "Choosing a trade"  `))
	assert.Equal(t, "First line", sanitizeTitle("First line\nsecond line"))
	assert.Equal(t, constant.DefaultSessionTitle, sanitizeTitle("   "))

	long := strings.Repeat("a", 200)
	assert.Len(t, sanitizeTitle(long), 80)
}

func TestTitleConsumer_RefinesTitle(t *testing.T) {
	uow := NewMockUnitOfWork()
	provider := new(MockProvider)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	consumer := &titleConsumerService{
		pubSub:     pubSub,
		topicName:  "titles",
		uowFactory: &mockUowFactory{uow: uow},
		provider:   provider,
		logger:     nopLogger{},
	}

	sessionId := uuid.New()
	session := &entity.ChatSession{Id: sessionId, Title: constant.DefaultSessionTitle}
	firstMessage := &entity.ChatMessage{Id: uuid.New(), ChatSessionId: sessionId, Role: "user", Content: "How do I become a nurse?"}

	uow.Sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil).Once()
	uow.Messages.On("FindAll", mock.Anything, mock.Anything).Return([]*entity.ChatMessage{firstMessage}, nil).Once()
	provider.On("Generate", mock.Anything, mock.Anything).Return(&assistant.Completion{Content: `"Becoming a nurse"`}, nil).Once()

	done := make(chan struct{})
	uow.Sessions.On("Update", mock.Anything, mock.MatchedBy(func(s *entity.ChatSession) bool {
		return s.Title == "Becoming a nurse"
	})).Run(func(mock.Arguments) { close(done) }).Return(nil).Once()

	payload, _ := json.Marshal(dto.RefineTitleMessage{SessionId: sessionId})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	consumer.processMessage(context.Background(), msg)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("title was not persisted")
	}
	uow.Sessions.AssertExpectations(t)
}
