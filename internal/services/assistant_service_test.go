// File: internal/services/assistant_service_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	tenantrepo "github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	userrepo "github.com/multisolucioneslv/erp-assistant/internal/repository/user"
	"github.com/multisolucioneslv/erp-assistant/internal/services/ai"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
	"github.com/multisolucioneslv/erp-assistant/internal/services/tenant_services"
)

type fakeGateway struct {
	reply       string
	err         error
	calls       int
	lastOpts    ai.CallOptions
	lastPayload []ai.ChatMessage
}

func (g *fakeGateway) Complete(ctx context.Context, opts ai.CallOptions, messages []ai.ChatMessage) (*ai.Completion, error) {
	g.calls++
	g.lastOpts = opts
	g.lastPayload = messages
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Completion{
		Content: g.reply,
		Model:   "test-model",
		Usage:   ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func (g *fakeGateway) CompleteWithTools(ctx context.Context, opts ai.CallOptions, messages []ai.ChatMessage, tools []ai.ToolDefinition) (*ai.ToolCompletion, error) {
	return &ai.ToolCompletion{Content: ""}, nil
}

func (g *fakeGateway) ClassifyIntent(ctx context.Context, opts ai.CallOptions, text string, labels []string) (string, error) {
	return "none", nil
}

type turnFixture struct {
	db        *gorm.DB
	gateway   *fakeGateway
	service   *AssistantService
	convSvc   *ConversationService
	tenant    *domain.Tenant
	user      *domain.User
	conv      *domain.Conversation
	tenantRep tenantrepo.TenantRepository
}

func newTurnFixture(t *testing.T) *turnFixture {
	t.Helper()
	db := openTestDB(t)
	ctx := context.Background()

	tenantRepo := tenantrepo.NewTenantRepository(db)
	userRepo := userrepo.NewUserRepository(db)

	tn, err := tenantRepo.Create(ctx, &domain.Tenant{
		Name:            "Acme",
		Language:        "es",
		AIEnabled:       true,
		AIDetectionMode: domain.DetectionModePattern,
	})
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	u := &domain.User{TenantID: tn.ID, Username: "ana", Role: domain.RoleMember, AIAccess: true}
	if err := u.HashPassword("secret-password"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err = userRepo.Create(ctx, u)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	gateway := &fakeGateway{reply: "aquí tienes los datos"}
	config := assistant.DefaultConfig()
	config.QueryCost = 0.02

	convSvc := newConvService(t, db)
	resolver, err := query.NewResolver(db, &NoOpLogger{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	strategies := assistant.NewStrategySet(gateway, resolver, &NoOpLogger{})

	ledger, err := tenant_services.NewLedgerService(tenantRepo, nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}

	service, err := NewAssistantService(
		db, convSvc, ledger, tenantRepo, userRepo,
		gateway, strategies, config, &NoOpLogger{},
	)
	if err != nil {
		t.Fatalf("new assistant service: %v", err)
	}

	conv, err := convSvc.CreateConversation(ctx, tn.ID, u.ID, "")
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	return &turnFixture{
		db: db, gateway: gateway, service: service, convSvc: convSvc,
		tenant: tn, user: u, conv: conv, tenantRep: tenantRepo,
	}
}

func (f *turnFixture) messageCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&domain.Message{}).Where("conversation_id = ?", f.conv.ID).Count(&n).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	return n
}

func TestSendMessagePersistsBothMessages(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	result, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, "hola, ¿qué puedes hacer?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if result.UserMessage == nil || result.AssistantMessage == nil {
		t.Fatal("both turn messages should be returned")
	}
	if result.AssistantMessage.Content != "aquí tienes los datos" {
		t.Errorf("assistant content = %q", result.AssistantMessage.Content)
	}
	if result.Grounded {
		t.Error("small talk should not be grounded")
	}
	if got := f.messageCount(t); got != 2 {
		t.Errorf("persisted messages = %d, want 2", got)
	}

	tn, _ := f.tenantRep.FindByID(ctx, f.tenant.ID)
	if tn.AITotalQueries != 1 {
		t.Errorf("ledger queries = %d, want 1", tn.AITotalQueries)
	}
	if tn.AIMonthlyUsage < 0.019 || tn.AIMonthlyUsage > 0.021 {
		t.Errorf("ledger usage = %v, want ~0.02", tn.AIMonthlyUsage)
	}

	// Metadata on the assistant message records the turn details.
	meta := result.AssistantMessage.Metadata
	if meta["model"] != "test-model" {
		t.Errorf("metadata model = %v", meta["model"])
	}
	if meta["grounded"] != false {
		t.Errorf("metadata grounded = %v, want false", meta["grounded"])
	}
}

func TestSendMessageGatewayFailureRollsBackEverything(t *testing.T) {
	f := newTurnFixture(t)
	f.gateway.err = errors.New("provider down")
	ctx := context.Background()

	_, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, "hola")
	if err == nil {
		t.Fatal("expected error")
	}
	if assistant.TypeOf(err) != assistant.ErrTypeUpstream {
		t.Errorf("error type = %v, want UPSTREAM", assistant.TypeOf(err))
	}

	// The invariant: a failed turn persists neither message and charges
	// nothing.
	if got := f.messageCount(t); got != 0 {
		t.Errorf("persisted messages after failed turn = %d, want 0", got)
	}
	tn, _ := f.tenantRep.FindByID(ctx, f.tenant.ID)
	if tn.AITotalQueries != 0 {
		t.Errorf("ledger queries after failed turn = %d, want 0", tn.AITotalQueries)
	}

	// The conversation title must not stick from the rolled-back turn.
	conv, err := f.convSvc.GetConversation(ctx, f.conv.ID, f.tenant.ID, f.user.ID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if conv.Title != "" {
		t.Errorf("title survived rollback: %q", conv.Title)
	}
}

func TestSendMessageGroundedTurn(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	result, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, "¿cuáles son los productos más vendidos?")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !result.Grounded || result.QueryType != query.CatalogSales {
		t.Errorf("grounded = %v type = %q, want grounded sales turn", result.Grounded, result.QueryType)
	}

	// The prompt must end with the grounding system message.
	payload := f.gateway.lastPayload
	last := payload[len(payload)-1]
	if last.Role != domain.RoleSystem || !strings.Contains(last.Content, "sales") {
		t.Errorf("prompt should end with grounding data, got %+v", last)
	}

	// The conversation context remembers the grounded query.
	conv, _ := f.convSvc.GetConversation(ctx, f.conv.ID, f.tenant.ID, f.user.ID)
	lastQuery, ok := conv.GetLastDataQuery()
	if !ok {
		t.Fatal("conversation context should record the grounded query")
	}
	if lastQuery.Type != query.CatalogSales || lastQuery.Mode != string(domain.DetectionModePattern) {
		t.Errorf("last query = %+v", lastQuery)
	}
}

func TestSendMessageAccessChecks(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		prepare func()
		want    assistant.ErrorType
	}{
		{"tenant disabled", func() {
			f.db.Model(&domain.Tenant{}).Where("id = ?", f.tenant.ID).Update("ai_enabled", false)
		}, assistant.ErrTypeForbidden},
		{"user without access", func() {
			f.db.Model(&domain.Tenant{}).Where("id = ?", f.tenant.ID).Update("ai_enabled", true)
			f.db.Model(&domain.User{}).Where("id = ?", f.user.ID).Update("ai_access", false)
		}, assistant.ErrTypeForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.prepare()
			_, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, "hola")
			if assistant.TypeOf(err) != tc.want {
				t.Errorf("error type = %v, want %v", assistant.TypeOf(err), tc.want)
			}
			if f.gateway.calls != 0 {
				t.Errorf("gateway should not be called when access is denied")
			}
		})
	}
}

func TestSendMessageValidation(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	if _, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, "   "); assistant.TypeOf(err) != assistant.ErrTypeValidation {
		t.Errorf("blank message: error type = %v, want VALIDATION", assistant.TypeOf(err))
	}

	long := strings.Repeat("a", domain.MaxUserMessageLength+1)
	if _, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, long); assistant.TypeOf(err) != assistant.ErrTypeValidation {
		t.Errorf("oversized message: error type = %v, want VALIDATION", assistant.TypeOf(err))
	}

	if _, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, 9999, "hola"); assistant.TypeOf(err) != assistant.ErrTypeNotFound {
		t.Errorf("unknown conversation: error type = %v, want NOT_FOUND", assistant.TypeOf(err))
	}
}

func TestSendMessageUsesTenantOverrides(t *testing.T) {
	f := newTurnFixture(t)
	ctx := context.Background()

	f.db.Model(&domain.Tenant{}).Where("id = ?", f.tenant.ID).Updates(map[string]interface{}{
		"ai_api_key": "tenant-key",
		"ai_model":   "tenant-model",
	})

	if _, err := f.service.SendMessage(ctx, f.tenant.ID, f.user.ID, f.conv.ID, "hola"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if f.gateway.lastOpts.APIKey != "tenant-key" || f.gateway.lastOpts.Model != "tenant-model" {
		t.Errorf("call options = %+v, want tenant overrides", f.gateway.lastOpts)
	}
}
