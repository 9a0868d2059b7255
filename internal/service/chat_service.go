package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/dto"
	"career-compass-be/internal/entity"
	"career-compass-be/internal/pkg/logger"
	"career-compass-be/internal/repository/memory"
	"career-compass-be/internal/repository/specification"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/pkg/assistant"
	"career-compass-be/pkg/events"
	"career-compass-be/pkg/quota"
	"career-compass-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) (*dto.ListSessionsResponse, error)
	GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error)
	RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.RenameSessionRequest) error
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

// IEventBus is the slice of the NATS publisher the chat domain needs.
type IEventBus interface {
	Publish(ctx context.Context, event events.Event) error
}

// IUsageNotifier pushes usage changes to connected clients.
type IUsageNotifier interface {
	Send(userId uuid.UUID, payload dto.UsageEventPayload)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	transcripts      *memory.TranscriptRepository
	tracker          *quota.Tracker
	provider         assistant.Provider
	eventBus         IEventBus
	notifier         IUsageNotifier
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	transcripts *memory.TranscriptRepository,
	tracker *quota.Tracker,
	provider assistant.Provider,
	eventBus IEventBus,
	notifier IUsageNotifier,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		transcripts:      transcripts,
		tracker:          tracker,
		provider:         provider,
		eventBus:         eventBus,
		notifier:         notifier,
		publisherService: publisherService,
		logger:           log,
	}
}

func (c *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	content := strings.TrimSpace(req.Message)
	if content == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "message must not be empty")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Resolve the target session. A nil session id means a brand new
	// conversation; it is only persisted once the exchange succeeds.
	var session *entity.ChatSession
	isNewSession := false
	if req.SessionId != nil {
		existing, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: *req.SessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		session = existing
	} else {
		isNewSession = true
		session = &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     constant.DefaultSessionTitle,
			Category:  normalizeCategory(req.Category),
			CreatedAt: time.Now(),
		}
	}

	// Load (or open) today's usage row and settle elapsed cooldowns
	// before deciding anything.
	usage, err := uow.DailyUsageRepository().FirstOrCreate(ctx, userId, time.Now())
	if err != nil {
		return nil, err
	}
	snapshot := quota.DailySnapshot{TokensUsed: usage.TokensUsed, CooldownEndsAt: usage.CooldownEndsAt}
	if settled, changed := c.tracker.Settle(snapshot); changed {
		snapshot = settled
		usage.TokensUsed = settled.TokensUsed
		usage.CooldownEndsAt = settled.CooldownEndsAt
		if err := uow.DailyUsageRepository().Update(ctx, usage); err != nil {
			return nil, err
		}
		c.pushUsageEvent(userId, events.TypeCooldownEnded, snapshot)
	}

	if decision := c.tracker.CanSendMessage(session.MessageCount, snapshot); !decision.Allowed {
		return nil, quotaDenied(decision)
	}

	// Optimistic transcript insert: the user bubble shows up before the
	// assistant answers, and disappears again if the exchange fails.
	transcript := c.loadTranscript(session, userId)
	provisionalTag := uuid.NewString()
	now := time.Now()
	transcript.AppendProvisional(store.Entry{
		MessageID: provisionalTag,
		Role:      constant.ChatMessageRoleUser,
		Content:   content,
		CreatedAt: now,
	})
	c.transcripts.Save(transcript)

	// Every failure from here on, provider or persistence, must take the
	// optimistic entry back out again. GetTranscript keeps pending entries
	// visible until they are reconciled with durable rows.
	exchangeDurable := false
	defer func() {
		if !exchangeDurable {
			transcript.RemoveProvisional(provisionalTag)
			c.transcripts.Save(transcript)
		}
	}()

	history := c.buildHistory(session.Category, transcript, content)
	completion, err := c.provider.Complete(ctx, history)
	if err != nil {
		return nil, c.handleProviderFailure(ctx, uow, userId, usage, snapshot, err)
	}

	// Durable write: session row (possibly new), both message rows, the
	// bumped exchange counter, and the token tally, atomically.
	userMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       content,
		CreatedAt:     now,
	}
	replyMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       completion.Content,
		CreatedAt:     time.Now(),
	}

	tokens := completion.TotalTokens
	if tokens == 0 {
		tokens = estimateTokens(content, completion.Content)
	}
	snapshot = c.tracker.Record(snapshot, tokens)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if isNewSession {
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{userMsg, replyMsg}); err != nil {
		return nil, err
	}

	session.MessageCount++
	lastAt := replyMsg.CreatedAt
	session.LastMessageAt = &lastAt
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	cooldownStarted := usage.CooldownEndsAt == nil && snapshot.CooldownEndsAt != nil
	usage.TokensUsed = snapshot.TokensUsed
	usage.CooldownEndsAt = snapshot.CooldownEndsAt
	if err := uow.DailyUsageRepository().Update(ctx, usage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	exchangeDurable = true

	// Reconcile: the durable rows now include the optimistic entry, so
	// the provisional copy is replaced wholesale.
	transcript.ReplaceDurable(append(durableEntries(transcript),
		store.Entry{MessageID: userMsg.Id.String(), Role: userMsg.Role, Content: userMsg.Content, CreatedAt: userMsg.CreatedAt},
		store.Entry{MessageID: replyMsg.Id.String(), Role: replyMsg.Role, Content: replyMsg.Content, CreatedAt: replyMsg.CreatedAt},
	))
	c.transcripts.Save(transcript)

	c.afterExchange(ctx, userId, session, isNewSession, tokens, snapshot, cooldownStarted)

	return &dto.SendChatResponse{
		SessionId: session.Id,
		Title:     session.Title,
		Sent: dto.ChatMessageResponse{
			Id:        userMsg.Id,
			Role:      userMsg.Role,
			Content:   userMsg.Content,
			CreatedAt: userMsg.CreatedAt,
		},
		Reply: dto.ChatMessageResponse{
			Id:        replyMsg.Id,
			Role:      replyMsg.Role,
			Content:   replyMsg.Content,
			CreatedAt: replyMsg.CreatedAt,
		},
		Usage: tokenUsageStatus(snapshot, time.Now()),
	}, nil
}

// handleProviderFailure classifies the upstream error. Rate or token
// rejections start a defensive local cooldown so the client stops
// hammering a provider that already said no.
func (c *chatService) handleProviderFailure(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, usage *entity.DailyUsage, snapshot quota.DailySnapshot, cause error) error {
	if assistant.Classify(cause) != assistant.FailureRateLimited {
		c.logger.Error("Chat", "Assistant call failed", map[string]interface{}{
			"user_id": userId,
			"error":   cause.Error(),
		})
		return fiber.NewError(fiber.StatusBadGateway, "assistant is unavailable, please try again")
	}

	snapshot = c.tracker.StartCooldown(snapshot)
	usage.TokensUsed = snapshot.TokensUsed
	usage.CooldownEndsAt = snapshot.CooldownEndsAt
	if err := uow.DailyUsageRepository().Update(ctx, usage); err != nil {
		c.logger.Error("Chat", "Failed to persist defensive cooldown", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
	c.pushUsageEvent(userId, events.TypeCooldownStarted, snapshot)

	resetAfter := 0.0
	if snapshot.CooldownEndsAt != nil {
		resetAfter = time.Until(*snapshot.CooldownEndsAt).Seconds()
	}
	return &dto.QuotaExceededError{
		Kind:       dto.QuotaKindDailyTokens,
		Limit:      constant.DailyTokenBudget,
		Used:       snapshot.TokensUsed,
		ResetAfter: resetAfter,
	}
}

// afterExchange publishes the side effects of a committed exchange:
// bus events, websocket pushes, and the async title refinement job for
// a session's first exchange.
func (c *chatService) afterExchange(ctx context.Context, userId uuid.UUID, session *entity.ChatSession, isNewSession bool, tokens int, snapshot quota.DailySnapshot, cooldownStarted bool) {
	if c.eventBus != nil {
		evt := events.BaseEvent{
			Type: events.TypeExchangeRecorded,
			Data: map[string]interface{}{
				"user_id":    userId.String(),
				"session_id": session.Id.String(),
				"tokens":     tokens,
			},
			OccurredAt: time.Now(),
		}
		if err := c.eventBus.Publish(ctx, evt); err != nil {
			c.logger.Warn("Chat", "Failed to publish exchange event", map[string]interface{}{"error": err.Error()})
		}
	}

	c.pushUsageEvent(userId, events.TypeExchangeRecorded, snapshot)
	if cooldownStarted {
		c.pushUsageEvent(userId, events.TypeCooldownStarted, snapshot)
	}

	if isNewSession && c.publisherService != nil {
		payload, _ := json.Marshal(dto.RefineTitleMessage{SessionId: session.Id})
		if err := c.publisherService.Publish(ctx, payload); err != nil {
			c.logger.Warn("Chat", "Failed to queue title refinement", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (c *chatService) pushUsageEvent(userId uuid.UUID, eventType string, snapshot quota.DailySnapshot) {
	if c.notifier == nil {
		return
	}
	c.notifier.Send(userId, dto.UsageEventPayload{
		Type:           eventType,
		UserId:         userId.String(),
		TokensUsed:     snapshot.TokensUsed,
		CooldownEndsAt: snapshot.CooldownEndsAt,
		OccurredAt:     time.Now(),
	})
}

// loadTranscript returns the cached transcript for the session, or a
// fresh one seeded empty. Durable rows are lazily loaded on read paths;
// the send path only needs somewhere to park the provisional entry.
func (c *chatService) loadTranscript(session *entity.ChatSession, userId uuid.UUID) *store.Transcript {
	if t, ok := c.transcripts.Get(session.Id.String()); ok {
		return t
	}
	return &store.Transcript{
		SessionID: session.Id.String(),
		UserID:    userId.String(),
	}
}

// buildHistory assembles the provider message list: the category system
// prompt, the durable conversation so far, then the new user message.
func (c *chatService) buildHistory(category string, transcript *store.Transcript, content string) []assistant.Message {
	history := []assistant.Message{
		{Role: "system", Content: systemPromptFor(category)},
	}
	for _, e := range transcript.Entries {
		if e.Kind != store.EntryDurable {
			continue
		}
		history = append(history, assistant.Message{Role: e.Role, Content: e.Content})
	}
	history = append(history, assistant.Message{Role: constant.ChatMessageRoleUser, Content: content})
	return history
}

func (c *chatService) ListSessions(ctx context.Context, userId uuid.UUID) (*dto.ListSessionsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "COALESCE(last_message_at, created_at)", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.ChatSessionRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	return &dto.ListSessionsResponse{
		Groups: groupSessions(sessions, time.Now()),
		Total:  total,
	}, nil
}

// Recency buckets for the session sidebar, newest first.
var sessionGroupLabels = []string{"Today", "Yesterday", "Last 7 Days", "Last 30 Days", "Older"}

func groupSessions(sessions []*entity.ChatSession, now time.Time) []dto.SessionGroup {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	bounds := []time.Time{
		startOfToday,
		startOfToday.AddDate(0, 0, -1),
		startOfToday.AddDate(0, 0, -7),
		startOfToday.AddDate(0, 0, -30),
	}

	buckets := make(map[string][]dto.ChatSessionResponse, len(sessionGroupLabels))
	for _, s := range sessions {
		ref := s.CreatedAt
		if s.LastMessageAt != nil {
			ref = *s.LastMessageAt
		}

		label := sessionGroupLabels[len(sessionGroupLabels)-1]
		for i, bound := range bounds {
			if !ref.Before(bound) {
				label = sessionGroupLabels[i]
				break
			}
		}

		buckets[label] = append(buckets[label], dto.ChatSessionResponse{
			Id:            s.Id,
			Title:         s.Title,
			Category:      s.Category,
			MessageCount:  s.MessageCount,
			LastMessageAt: s.LastMessageAt,
			CreatedAt:     s.CreatedAt,
		})
	}

	groups := make([]dto.SessionGroup, 0, len(sessionGroupLabels))
	for _, label := range sessionGroupLabels {
		if items, ok := buckets[label]; ok {
			groups = append(groups, dto.SessionGroup{Label: label, Sessions: items})
		}
	}
	return groups
}

func (c *chatService) GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	rows, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	// Refresh the cached transcript from the durable rows, keeping any
	// provisional entry that is still in flight.
	durable := make([]store.Entry, 0, len(rows))
	for _, row := range rows {
		durable = append(durable, store.Entry{
			MessageID: row.Id.String(),
			Role:      row.Role,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}

	transcript := c.loadTranscript(session, userId)
	pending := make([]store.Entry, 0)
	for _, e := range transcript.Entries {
		if e.Kind == store.EntryProvisional {
			pending = append(pending, e)
		}
	}
	transcript.ReplaceDurable(durable)
	for _, e := range pending {
		transcript.AppendProvisional(e)
	}
	c.transcripts.Save(transcript)

	messages := make([]dto.TranscriptEntryResponse, 0, len(transcript.Entries))
	for _, e := range transcript.Entries {
		item := dto.TranscriptEntryResponse{
			Role:      e.Role,
			Content:   e.Content,
			Pending:   e.Kind == store.EntryProvisional,
			CreatedAt: e.CreatedAt,
		}
		if e.Kind == store.EntryDurable {
			if id, parseErr := uuid.Parse(e.MessageID); parseErr == nil {
				item.Id = &id
			}
		}
		messages = append(messages, item)
	}

	return &dto.TranscriptResponse{
		SessionId: session.Id,
		Title:     session.Title,
		Messages:  messages,
	}, nil
}

func (c *chatService) RenameSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.RenameSessionRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	now := time.Now()
	session.Title = strings.TrimSpace(req.Title)
	session.UpdatedAt = &now
	return uow.ChatSessionRepository().Update(ctx, session)
}

func (c *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	// Uploads survive the session; they only lose the association.
	if err := uow.UploadRepository().DetachFromSession(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.transcripts.Delete(sessionId.String())

	if c.eventBus != nil {
		evt := events.BaseEvent{
			Type: events.TypeSessionDeleted,
			Data: map[string]interface{}{
				"user_id":    userId.String(),
				"session_id": sessionId.String(),
			},
			OccurredAt: time.Now(),
		}
		if err := c.eventBus.Publish(ctx, evt); err != nil {
			c.logger.Warn("Chat", "Failed to publish session deleted event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func normalizeCategory(category string) string {
	if _, ok := constant.CategorySystemPrompts[category]; ok {
		return category
	}
	return constant.ChatCategoryGeneral
}

func systemPromptFor(category string) string {
	if prompt, ok := constant.CategorySystemPrompts[category]; ok {
		return prompt
	}
	return constant.SystemPromptGeneral
}

// durableEntries returns the durable subset of a transcript's entries.
func durableEntries(t *store.Transcript) []store.Entry {
	out := make([]store.Entry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Kind == store.EntryDurable {
			out = append(out, e)
		}
	}
	return out
}

// estimateTokens is the fallback when the provider reports no usage.
// Four characters per token is the usual rough ratio.
func estimateTokens(prompt, reply string) int {
	n := (len(prompt) + len(reply)) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// quotaDenied converts a tracker decision into the client-facing error.
func quotaDenied(d quota.Decision) *dto.QuotaExceededError {
	kind := dto.QuotaKindDailyTokens
	if d.Reason == quota.ReasonSessionLimit {
		kind = dto.QuotaKindSessionMessages
	}

	resetAfter := 0.0
	if !d.ResetAfter.IsZero() {
		resetAfter = time.Until(d.ResetAfter).Seconds()
		if resetAfter < 0 {
			resetAfter = 0
		}
	}

	return &dto.QuotaExceededError{
		Kind:       kind,
		Limit:      d.Limit,
		Used:       d.Used,
		ResetAfter: resetAfter,
	}
}

// tokenUsageStatus builds the token and cooldown half of the usage
// status. Upload counters are filled by the usage service, which has
// the day's upload counts at hand.
func tokenUsageStatus(s quota.DailySnapshot, now time.Time) dto.UsageStatusResponse {
	res := dto.UsageStatusResponse{
		TokensUsed:       s.TokensUsed,
		TokenBudget:      constant.DailyTokenBudget,
		PdfUploadLimit:   constant.DailyPdfUploadLimit,
		ImageUploadLimit: constant.DailyImageUploadLimit,
	}
	if s.CooldownEndsAt != nil && now.Before(*s.CooldownEndsAt) {
		res.CooldownActive = true
		res.CooldownEndsAt = s.CooldownEndsAt
		res.CooldownRemaining = s.CooldownEndsAt.Sub(now).Seconds()
	}
	return res
}
