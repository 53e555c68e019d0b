// File: internal/services/assistant_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/user"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
	"github.com/multisolucioneslv/erp-assistant/internal/services/tenant_services"
)

// TurnResult is the outcome of one completed chat turn.
type TurnResult struct {
	UserMessage      *domain.Message `json:"user_message"`
	AssistantMessage *domain.Message `json:"assistant_message"`
	Grounded         bool            `json:"grounded"`
	QueryType        string          `json:"query_type,omitempty"`
}

// AssistantService runs the chat turn pipeline: access checks, intent
// detection, grounding, the model call, and usage accounting. Every durable
// effect of a turn happens inside one database transaction, so a failed turn
// leaves no trace.
type AssistantService struct {
	db          *gorm.DB
	convService *ConversationService
	ledger      *tenant_services.LedgerService
	tenantRepo  tenant.TenantRepository
	userRepo    user.UserRepository
	gateway     assistant.Gateway
	strategies  *assistant.StrategySet
	prompts     *assistant.PromptBuilder
	config      *assistant.Config
	logger      Logger
}

func NewAssistantService(
	db *gorm.DB,
	convService *ConversationService,
	ledger *tenant_services.LedgerService,
	tenantRepo tenant.TenantRepository,
	userRepo user.UserRepository,
	gateway assistant.Gateway,
	strategies *assistant.StrategySet,
	config *assistant.Config,
	logger Logger,
) (*AssistantService, error) {
	if db == nil {
		return nil, assistant.NewValidationError("constructor", "database handle is required")
	}
	if convService == nil {
		return nil, assistant.NewValidationError("constructor", "conversation service is required")
	}
	if ledger == nil {
		return nil, assistant.NewValidationError("constructor", "ledger service is required")
	}
	if tenantRepo == nil {
		return nil, assistant.NewValidationError("constructor", "tenant repository is required")
	}
	if userRepo == nil {
		return nil, assistant.NewValidationError("constructor", "user repository is required")
	}
	if gateway == nil {
		return nil, assistant.NewValidationError("constructor", "AI gateway is required")
	}
	if strategies == nil {
		return nil, assistant.NewValidationError("constructor", "strategy set is required")
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
	return &AssistantService{
		db:          db,
		convService: convService,
		ledger:      ledger,
		tenantRepo:  tenantRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		strategies:  strategies,
		prompts:     assistant.NewPromptBuilder(config),
		config:      config,
		logger:      logger,
	}, nil
}

// SendMessage runs one chat turn against an existing conversation. On
// success both the user and assistant messages are persisted and the
// tenant's ledger has advanced; on any failure nothing is persisted.
func (s *AssistantService) SendMessage(ctx context.Context, tenantID, userID, conversationID uint, content string) (*TurnResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, assistant.NewValidationError("send_message", "message content must not be empty")
	}
	if utf8.RuneCountInString(content) > s.config.MaxMessageLength {
		return nil, assistant.NewValidationError("send_message", "message content exceeds maximum length")
	}

	t, _, err := s.checkAccess(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	var result *TurnResult
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		turn, err := s.runTurn(ctx, tx, t, userID, conversationID, content)
		if err != nil {
			return err
		}
		result = turn
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

// runTurn executes the turn pipeline against a transaction-bound view of the
// store. Returning an error rolls back every write made so far.
func (s *AssistantService) runTurn(ctx context.Context, tx *gorm.DB, t *domain.Tenant, userID, conversationID uint, content string) (*TurnResult, error) {
	convs := s.convService.WithTx(tx)

	conv, err := convs.GetConversation(ctx, conversationID, t.ID, userID)
	if err != nil {
		return nil, err
	}

	history, err := convs.RecentHistory(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	userMsg, err := convs.AppendMessage(ctx, conv, domain.RoleUser, content, nil)
	if err != nil {
		return nil, err
	}

	grounding := s.resolveGrounding(ctx, t, content)

	messages := s.prompts.Build(t, history, content, grounding)
	completion, err := s.gateway.Complete(ctx, assistant.CallOptionsFor(t), messages)
	if err != nil {
		s.logger.Error("completion failed", "tenant_id", t.ID, "conversation_id", conv.ID, "error", err)
		return nil, assistant.NewUpstreamError("send_message", "AI provider call failed", err)
	}

	metadata := datatypes.JSONMap{
		"model":          completion.Model,
		"detection_mode": string(t.AIDetectionMode),
		"grounded":       grounding != nil,
	}
	if completion.Usage.TotalTokens > 0 {
		metadata["prompt_tokens"] = completion.Usage.PromptTokens
		metadata["completion_tokens"] = completion.Usage.CompletionTokens
		metadata["total_tokens"] = completion.Usage.TotalTokens
	}
	if grounding != nil {
		metadata["query_type"] = grounding.Type
	}

	assistantMsg, err := convs.AppendMessage(ctx, conv, domain.RoleAssistant, completion.Content, metadata)
	if err != nil {
		return nil, err
	}

	if grounding != nil {
		conv.SetLastDataQuery(grounding.Type, t.AIDetectionMode, time.Now())
		if err := convs.SaveContext(ctx, conv); err != nil {
			return nil, err
		}
	}

	if err := s.ledger.WithTx(tx).RecordQuery(ctx, t.ID, s.config.QueryCost); err != nil {
		return nil, err
	}

	result := &TurnResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Grounded:         grounding != nil,
	}
	if grounding != nil {
		result.QueryType = grounding.Type
	}
	return result, nil
}

// resolveGrounding runs the tenant's intent detection strategy. Detection is
// best effort: a strategy that finds nothing, or fails upstream, yields an
// ungrounded turn rather than an error.
func (s *AssistantService) resolveGrounding(ctx context.Context, t *domain.Tenant, content string) *query.Result {
	strategy := s.strategies.ForMode(t.AIDetectionMode)
	result, err := strategy.Resolve(ctx, t, content)
	if err != nil {
		s.logger.Warn("intent detection failed, continuing ungrounded",
			"tenant_id", t.ID, "mode", string(t.AIDetectionMode), "error", err)
		return nil
	}
	return result
}

// checkAccess verifies the tenant has the assistant enabled and the user is
// a member of the tenant with assistant access.
func (s *AssistantService) checkAccess(ctx context.Context, tenantID, userID uint) (*domain.Tenant, *domain.User, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return nil, nil, assistant.NewNotFoundError("send_message", "tenant not found")
		}
		return nil, nil, assistant.NewInternalError("send_message", err)
	}
	if !t.AIEnabled {
		return nil, nil, assistant.NewForbiddenError("send_message", "AI assistant is disabled for this tenant")
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, assistant.NewNotFoundError("send_message", "user not found")
		}
		return nil, nil, assistant.NewInternalError("send_message", err)
	}
	if u.TenantID != tenantID {
		return nil, nil, assistant.NewForbiddenError("send_message", "user does not belong to this tenant")
	}
	if !u.AIAccess {
		return nil, nil, assistant.NewForbiddenError("send_message", "user does not have AI assistant access")
	}
	return t, u, nil
}
