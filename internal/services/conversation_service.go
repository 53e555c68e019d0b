// File: internal/services/conversation_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/conversation"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/message"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
)

// ConversationSummary is one listing entry: the conversation plus a short
// preview of its most recent message.
type ConversationSummary struct {
	Conversation domain.Conversation `json:"conversation"`
	Preview      string              `json:"preview"`
}

// ConversationWithHistory is a conversation plus its full ordered history.
type ConversationWithHistory struct {
	Conversation domain.Conversation `json:"conversation"`
	Messages     []domain.Message    `json:"messages"`
}

// ConversationService is the durable record of conversations and messages.
type ConversationService struct {
	convRepo conversation.ConversationRepository
	msgRepo  message.MessageRepository
	config   *assistant.Config
	logger   Logger
}

func NewConversationService(
	convRepo conversation.ConversationRepository,
	msgRepo message.MessageRepository,
	config *assistant.Config,
	logger Logger,
) (*ConversationService, error) {
	if convRepo == nil {
		return nil, assistant.NewValidationError("constructor", "conversation repository is required")
	}
	if msgRepo == nil {
		return nil, assistant.NewValidationError("constructor", "message repository is required")
	}
	if config == nil {
		config = assistant.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, assistant.NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ConversationService{convRepo: convRepo, msgRepo: msgRepo, config: config, logger: logger}, nil
}

// WithTx returns a service bound to the given transaction, for use inside a
// chat turn's unit of work.
func (s *ConversationService) WithTx(tx *gorm.DB) *ConversationService {
	return &ConversationService{
		convRepo: s.convRepo.WithTx(tx),
		msgRepo:  s.msgRepo.WithTx(tx),
		config:   s.config,
		logger:   s.logger,
	}
}

func (s *ConversationService) CreateConversation(ctx context.Context, tenantID, userID uint, title string) (*domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > s.config.TitleLength+3 {
		title = truncateRunes(title, s.config.TitleLength) + "..."
	}
	conv := &domain.Conversation{
		TenantID: tenantID,
		UserID:   userID,
		Title:    title,
		Context:  datatypes.JSONMap{},
	}
	created, err := s.convRepo.Create(ctx, conv)
	if err != nil {
		return nil, assistant.NewInternalError("create_conversation", err)
	}
	return created, nil
}

// ListConversations returns the caller's conversations ordered by last
// activity, each with a preview of its most recent message.
func (s *ConversationService) ListConversations(ctx context.Context, tenantID, userID uint) ([]ConversationSummary, error) {
	convs, err := s.convRepo.FindByOwner(ctx, tenantID, userID)
	if err != nil {
		return nil, assistant.NewInternalError("list_conversations", err)
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := ConversationSummary{Conversation: conv}
		latest, err := s.msgRepo.FindLatest(ctx, conv.ID)
		if err != nil {
			return nil, assistant.NewInternalError("list_conversations", err)
		}
		if latest != nil {
			summary.Preview = truncateRunes(latest.Content, s.config.PreviewLength)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *ConversationService) GetConversationWithHistory(ctx context.Context, id, tenantID, userID uint) (*ConversationWithHistory, error) {
	conv, err := s.findOwned(ctx, id, tenantID, userID, "get_conversation")
	if err != nil {
		return nil, err
	}
	messages, err := s.msgRepo.FindByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, assistant.NewInternalError("get_conversation", err)
	}
	return &ConversationWithHistory{Conversation: *conv, Messages: messages}, nil
}

// GetConversation validates ownership and returns the bare conversation.
func (s *ConversationService) GetConversation(ctx context.Context, id, tenantID, userID uint) (*domain.Conversation, error) {
	return s.findOwned(ctx, id, tenantID, userID, "get_conversation")
}

// AppendMessage persists one message and touches the conversation's
// activity timestamp. The first user message of an untitled conversation
// also becomes its derived title.
func (s *ConversationService) AppendMessage(ctx context.Context, conv *domain.Conversation, role, content string, metadata datatypes.JSONMap) (*domain.Message, error) {
	msg := &domain.Message{
		ConversationID: conv.ID,
		Role:           role,
		Content:        content,
		Metadata:       metadata,
	}
	created, err := s.msgRepo.Create(ctx, msg)
	if err != nil {
		return nil, assistant.NewInternalError("append_message", err)
	}
	if err := s.convRepo.TouchActivity(ctx, conv.ID); err != nil {
		return nil, assistant.NewInternalError("append_message", err)
	}

	if conv.Title == "" && role == domain.RoleUser {
		title := s.deriveTitle(content)
		if err := s.convRepo.UpdateTitle(ctx, conv.ID, title); err != nil {
			return nil, assistant.NewInternalError("append_message", err)
		}
		conv.Title = title
	}
	return created, nil
}

// RecentHistory returns the last HistoryLimit messages, oldest first.
func (s *ConversationService) RecentHistory(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	history, err := s.msgRepo.FindRecent(ctx, conversationID, s.config.HistoryLimit)
	if err != nil {
		return nil, assistant.NewInternalError("recent_history", err)
	}
	return history, nil
}

// SaveContext persists the conversation's context map.
func (s *ConversationService) SaveContext(ctx context.Context, conv *domain.Conversation) error {
	if err := s.convRepo.UpdateContext(ctx, conv); err != nil {
		return assistant.NewInternalError("save_context", err)
	}
	return nil
}

// DeleteConversation performs a reversible logical delete.
func (s *ConversationService) DeleteConversation(ctx context.Context, id, tenantID, userID uint) error {
	if err := s.convRepo.Delete(ctx, id, tenantID, userID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return assistant.NewNotFoundError("delete_conversation", "conversation not found")
		}
		return assistant.NewInternalError("delete_conversation", err)
	}
	return nil
}

// RestoreConversation moves a deleted conversation back to active.
func (s *ConversationService) RestoreConversation(ctx context.Context, id, tenantID, userID uint) error {
	if err := s.convRepo.Restore(ctx, id, tenantID, userID); err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return assistant.NewNotFoundError("restore_conversation", "conversation not found")
		}
		return assistant.NewInternalError("restore_conversation", err)
	}
	return nil
}

func (s *ConversationService) findOwned(ctx context.Context, id, tenantID, userID uint, operation string) (*domain.Conversation, error) {
	conv, err := s.convRepo.FindByID(ctx, id, tenantID, userID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return nil, assistant.NewNotFoundError(operation, "conversation not found")
		}
		return nil, assistant.NewInternalError(operation, err)
	}
	return conv, nil
}

func (s *ConversationService) deriveTitle(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= s.config.TitleLength {
		return content
	}
	return truncateRunes(content, s.config.TitleLength) + "..."
}

// truncateRunes safely truncates a UTF-8 string to maxLen runes.
func truncateRunes(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}
	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
