// Package http wires repositories, gateways, and use-cases into the gin
// router.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tradedesk/internal/application/panel"
	"tradedesk/internal/application/ticket/usecases"
	"tradedesk/internal/infrastructure/auth"
	"tradedesk/internal/infrastructure/cache"
	"tradedesk/internal/infrastructure/cards"
	"tradedesk/internal/infrastructure/chat"
	"tradedesk/internal/infrastructure/config"
	"tradedesk/internal/infrastructure/repository"
	"tradedesk/internal/interfaces/http/handlers"
	"tradedesk/internal/interfaces/http/middleware"
	"tradedesk/internal/shared/db"
	"tradedesk/internal/shared/logger"
)

func NewRouter(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client, log logger.Interface) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ticketRepo := repository.NewTicketRepository(gormDB)
	participantRepo := repository.NewParticipantRepository(gormDB)
	tradeRepo := repository.NewTradeRepository(gormDB)
	claimRepo := repository.NewClaimRepository(gormDB)
	ledgerRepo := repository.NewFinalizationRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	statsRepo := repository.NewStatsRepository(gormDB)
	txManager := db.NewTransactionManager(gormDB)

	chatClient := chat.NewClient(cfg.Chat, log)
	cardRenderer := cards.NewRenderer(cfg.Chat)
	panelStore := cache.NewPanelMessageStore(redisClient, "tradedesk")
	cooldownStore := cache.NewOpenCooldownStore(redisClient, "tradedesk", cfg.Trade.OpenCooldown())
	panelRenderer := panel.NewRenderer(chatClient, panelStore, cardRenderer, log)

	openTicketUC := usecases.NewOpenTicketUseCase(
		ticketRepo, participantRepo, txManager, cooldownStore, chatClient, panelRenderer, cfg.Trade, log)
	claimTicketUC := usecases.NewClaimTicketUseCase(
		ticketRepo, claimRepo, tradeRepo, txManager, chatClient, panelRenderer, log)
	submitTradeUC := usecases.NewSubmitTradeUseCase(
		ticketRepo, participantRepo, tradeRepo, ledgerRepo, txManager, chatClient, panelRenderer, log)
	confirmTradeUC := usecases.NewConfirmTradeUseCase(
		ticketRepo, tradeRepo, txManager, chatClient, panelRenderer, log)
	cancelTradeUC := usecases.NewCancelTradeUseCase(
		ticketRepo, tradeRepo, ledgerRepo, txManager, chatClient, panelRenderer, log)
	requestClosureUC := usecases.NewRequestClosureUseCase(
		ticketRepo, participantRepo, claimRepo, ledgerRepo, chatClient, panelRenderer, log)
	confirmFinalizationUC := usecases.NewConfirmFinalizationUseCase(
		ticketRepo, participantRepo, claimRepo, ledgerRepo, chatClient, panelRenderer, log)
	revokeFinalizationUC := usecases.NewRevokeFinalizationUseCase(
		ticketRepo, participantRepo, claimRepo, ledgerRepo, chatClient, panelRenderer, log)
	closeTicketUC := usecases.NewCloseTicketUseCase(
		ticketRepo, participantRepo, tradeRepo, claimRepo, ledgerRepo, statsRepo, txManager,
		chatClient, panelRenderer, log)
	submitReviewUC := usecases.NewSubmitReviewUseCase(
		ticketRepo, participantRepo, claimRepo, reviewRepo, log)
	getTicketUC := usecases.NewGetTicketUseCase(
		ticketRepo, participantRepo, tradeRepo, claimRepo, ledgerRepo)
	middlemanProfileUC := usecases.NewMiddlemanProfileUseCase(statsRepo, reviewRepo)

	ticketHandler := handlers.NewTicketHandler(
		openTicketUC, claimTicketUC, submitTradeUC, confirmTradeUC, cancelTradeUC,
		requestClosureUC, confirmFinalizationUC, revokeFinalizationUC, closeTicketUC,
		submitReviewUC, getTicketUC, middlemanProfileUC)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	{
		tickets := api.Group("/tickets")
		{
			tickets.POST("", ticketHandler.OpenTicket)
			tickets.GET("/:id", ticketHandler.GetTicket)
			tickets.POST("/:id/claim", ticketHandler.ClaimTicket)
			tickets.PUT("/:id/trade", ticketHandler.SubmitTrade)
			tickets.POST("/:id/trade/confirm", ticketHandler.ConfirmTrade)
			tickets.DELETE("/:id/trade", ticketHandler.CancelTrade)
			tickets.POST("/:id/closure-request", ticketHandler.RequestClosure)
			tickets.POST("/:id/finalization", ticketHandler.ConfirmFinalization)
			tickets.DELETE("/:id/finalization", ticketHandler.RevokeFinalization)
			tickets.POST("/:id/close", ticketHandler.CloseTicket)
			tickets.POST("/:id/reviews", ticketHandler.SubmitReview)
		}

		api.GET("/middlemen/:id/profile", ticketHandler.GetMiddlemanProfile)
	}

	return router
}
