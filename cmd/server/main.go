// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/multisolucioneslv/erp-assistant/internal/config"
	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/handlers"
	"github.com/multisolucioneslv/erp-assistant/internal/middleware"
	"github.com/multisolucioneslv/erp-assistant/internal/ratelimit"
	conversationrepo "github.com/multisolucioneslv/erp-assistant/internal/repository/conversation"
	messagerepo "github.com/multisolucioneslv/erp-assistant/internal/repository/message"
	tenantrepo "github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	userrepo "github.com/multisolucioneslv/erp-assistant/internal/repository/user"
	"github.com/multisolucioneslv/erp-assistant/internal/services"
	"github.com/multisolucioneslv/erp-assistant/internal/services/ai"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/query"
	"github.com/multisolucioneslv/erp-assistant/internal/services/tenant_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("erp-assistant")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.Product{},
		&domain.Inventory{},
		&domain.Sale{},
		&domain.SaleItem{},
		&domain.Company{},
		&domain.Supplier{},
		&domain.Category{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	tenantRepo := tenantrepo.NewTenantRepository(db)
	userRepo := userrepo.NewUserRepository(db)
	convRepo := conversationrepo.NewConversationRepository(db)
	msgRepo := messagerepo.NewMessageRepository(db)

	// --- AI gateway ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.Model = cfg.LLMModel
	aiConfig.IntentModel = cfg.IntentModel
	aiConfig.MaxTokens = cfg.LLMMaxTokens
	gateway, err := ai.NewOpenAIGateway(aiConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI gateway: %v", err)
	}

	// --- Services ---
	assistantConfig := assistant.DefaultConfig()
	assistantConfig.QueryCost = cfg.AIQueryCost

	resolver, err := query.NewResolver(db, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize query resolver: %v", err)
	}
	strategies := assistant.NewStrategySet(gateway, resolver, logger)

	convService, err := services.NewConversationService(convRepo, msgRepo, assistantConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize conversation service: %v", err)
	}
	ledgerService, err := tenant_services.NewLedgerService(tenantRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize ledger service: %v", err)
	}
	adminService, err := tenant_services.NewAdminService(tenantRepo, userRepo, ledgerService, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize admin service: %v", err)
	}
	assistantService, err := services.NewAssistantService(
		db, convService, ledgerService, tenantRepo, userRepo,
		gateway, strategies, assistantConfig, logger,
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize assistant service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo, []byte(cfg.JWTSecretKey))
	convHandler := handlers.NewConversationHandler(convService, assistantService)
	tenantAdminHandler := handlers.NewTenantAdminHandler(adminService, ledgerService)
	platformAdminHandler := handlers.NewPlatformAdminHandler(adminService, ledgerService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))

	chatLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultChatConfig())
	defer chatLimiter.Close()
	adminLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAdminConfig())
	defer adminLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	// --- Protected Routes (conversations and chat) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/conversations", convHandler.List).Methods("GET")
	api.HandleFunc("/conversations", convHandler.Create).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}", convHandler.Get).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}", convHandler.Delete).Methods("DELETE")
	api.HandleFunc("/conversations/{id:[0-9]+}/restore", convHandler.Restore).Methods("POST")

	chat := api.PathPrefix("/conversations/{id:[0-9]+}").Subrouter()
	chat.Use(middleware.RateLimitMiddleware(chatLimiter, "chat"))
	chat.HandleFunc("/messages", convHandler.SendMessage).Methods("POST")

	// --- Tenant Admin Routes ---
	tenantAdmin := r.PathPrefix("/api/admin").Subrouter()
	tenantAdmin.Use(authMiddleware)
	tenantAdmin.Use(middleware.RequireAdmin())
	tenantAdmin.Use(middleware.RateLimitMiddleware(adminLimiter, "admin"))
	tenantAdmin.HandleFunc("/ai/config", tenantAdminHandler.GetAIConfig).Methods("GET")
	tenantAdmin.HandleFunc("/ai/config", tenantAdminHandler.UpdateAIConfig).Methods("PUT")
	tenantAdmin.HandleFunc("/ai/usage", tenantAdminHandler.Usage).Methods("GET")
	tenantAdmin.HandleFunc("/ai/plans", tenantAdminHandler.Plans).Methods("GET")
	tenantAdmin.HandleFunc("/users/{id:[0-9]+}/ai-access", tenantAdminHandler.SetUserAccess).Methods("PUT")

	// --- Platform Admin Routes ---
	platformAdmin := r.PathPrefix("/api/platform").Subrouter()
	platformAdmin.Use(authMiddleware)
	platformAdmin.Use(middleware.RequireRole(domain.RolePlatformAdmin))
	platformAdmin.Use(middleware.RateLimitMiddleware(adminLimiter, "platform"))
	platformAdmin.HandleFunc("/tenants", platformAdminHandler.ListTenants).Methods("GET")
	platformAdmin.HandleFunc("/tenants/{id:[0-9]+}/ai", platformAdminHandler.ToggleAI).Methods("PUT")
	platformAdmin.HandleFunc("/tenants/{id:[0-9]+}/ai/config", platformAdminHandler.UpdateTenantAIConfig).Methods("PUT")
	platformAdmin.HandleFunc("/tenants/{id:[0-9]+}/ai/usage", platformAdminHandler.TenantUsage).Methods("GET")
	platformAdmin.HandleFunc("/tenants/{id:[0-9]+}/ai/reset", platformAdminHandler.ResetUsage).Methods("POST")
	platformAdmin.HandleFunc("/stats", platformAdminHandler.GlobalUsage).Methods("GET")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("ERP Assistant starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
