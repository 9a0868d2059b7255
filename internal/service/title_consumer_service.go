package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/dto"
	"career-compass-be/internal/pkg/logger"
	"career-compass-be/internal/repository/specification"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/assistant"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ITitleConsumerService interface {
	Consume(ctx context.Context) error
}

// titleConsumerService refines session titles in the background. Title
// quality is cosmetic, so failures are logged and dropped rather than
// retried forever.
type titleConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	provider   assistant.Provider
	logger     logger.ILogger
}

func NewTitleConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	provider assistant.Provider,
	log logger.ILogger,
) ITitleConsumerService {
	return &titleConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		provider:   provider,
		logger:     log,
	}
}

func (cs *titleConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *titleConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RefineTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("TitleConsumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: payload.SessionId})
	if err != nil || session == nil {
		cs.logger.Warn("TitleConsumer", "Session not found for title refinement", map[string]interface{}{"session_id": payload.SessionId})
		msg.Ack()
		return
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: 2, Offset: 0},
	)
	if err != nil || len(history) == 0 {
		msg.Ack()
		return
	}

	prompt := "Write a title of at most six words for a conversation that starts with: " +
		history[0].Content + "\nReply with the title only, no quotes."

	completion, err := cs.provider.Generate(ctx, prompt, assistant.WithMaxTokens(32))
	if err != nil {
		cs.logger.Warn("TitleConsumer", "Title generation failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	title := sanitizeTitle(completion.Content)
	if title == "" || title == session.Title {
		msg.Ack()
		return
	}

	now := time.Now()
	session.Title = title
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		cs.logger.Error("TitleConsumer", "Failed to persist refined title", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}

	msg.Ack()
}

// sanitizeTitle trims quotes and whitespace the model tends to add and
// caps the length to keep the sidebar readable.
func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	if len(title) > 80 {
		title = title[:80]
	}
	if strings.TrimSpace(title) == "" {
		return constant.DefaultSessionTitle
	}
	return title
}
