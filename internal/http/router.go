package apphttp

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"printora.com/app/internal/archive"
	"printora.com/app/internal/config"
	"printora.com/app/internal/http/handlers"
	"printora.com/app/internal/http/middleware"
	"printora.com/app/internal/mailer"
	"printora.com/app/internal/modules/earnings"
	"printora.com/app/internal/modules/fulfillment"
	"printora.com/app/internal/modules/orders"
)

type Deps struct {
	Archive archive.Store  // optional
	Mailer  mailer.Service // optional
}

func NewRouter(logger *slog.Logger, db *gorm.DB, cfg config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	// ErrorHandler sits outside Recovery: a recovered panic is queued as
	// an error and still rendered on the way back out.
	r.Use(middleware.ErrorHandler(logger))
	r.Use(middleware.Recovery(logger))

	orderSvc := orders.NewService(db)
	orderSvc.SetLogger(logger)
	orderRepo := orders.NewRepo(db)

	earnSvc := earnings.NewService(db, cfg.MinPayoutCents)
	earnSvc.SetLogger(logger)
	if deps.Mailer != nil {
		earnSvc.SetMailer(deps.Mailer, cfg.SMTP.FromAddr)
	}

	reconciler := fulfillment.NewReconciler(db)
	reconciler.SetLogger(logger)
	if deps.Archive != nil {
		reconciler.SetArchive(deps.Archive)
	}

	webhookH := handlers.NewWebhookHandler(logger, cfg.WebhookSecret, reconciler)
	orderH := handlers.NewOrderHandler(logger, orderSvc, orderRepo)
	earnH := handlers.NewEarningsHandler(logger, earnSvc)
	quoteH := handlers.NewQuoteHandler(logger)

	r.POST("/webhooks/fulfillment", webhookH.Handle)

	api := r.Group("/api")
	{
		api.POST("/orders", orderH.Create)
		api.GET("/orders/:id", orderH.Get)
		api.GET("/orders/:id/events", orderH.Events)
		api.POST("/orders/:id/provider", orderH.AttachProvider)

		api.GET("/creators/:creatorID/orders", orderH.ListByCreator)
		api.GET("/creators/:creatorID/earnings", earnH.Summary)
		api.POST("/creators/:creatorID/payouts", earnH.RequestPayout)
		api.PUT("/creators/:creatorID/payout-details", earnH.UpdatePayoutDetails)

		api.POST("/quotes", quoteH.Create)
	}

	return r
}
