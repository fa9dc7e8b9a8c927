package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/catalog"
	"github.com/pephaul/orderdesk/internal/config"
	"github.com/pephaul/orderdesk/internal/handler"
	"github.com/pephaul/orderdesk/internal/imagestore"
	"github.com/pephaul/orderdesk/internal/inventory"
	"github.com/pephaul/orderdesk/internal/ledger"
	"github.com/pephaul/orderdesk/internal/notify"
	"github.com/pephaul/orderdesk/internal/pricing"
	"github.com/pephaul/orderdesk/internal/settings"
	"github.com/pephaul/orderdesk/internal/sheetdb"
	"github.com/pephaul/orderdesk/internal/transport"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "orderdesk").Logger()

	log.Info().Msg("Order desk starting...")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	client := sheetdb.NewRESTClient(cfg.Sheets.APIKey)
	table, err := client.OpenTable(ctx, cfg.Sheets.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open spreadsheet")
	}

	store := cache.New()
	calc := pricing.NewCalculator(cfg.Pricing.AdminFeePHP, cfg.Pricing.VialsPerFeeUnit)
	rates := pricing.NewRateFetcher(cfg.Pricing.ExchangeRateURL, cfg.Pricing.FallbackRate)

	cat := catalog.NewResolver(table, store, cfg.Sheets.ProductsTab, cfg.Sheets.ProductsFallbackGID)
	led := ledger.New(table.Subtable(cfg.Sheets.OrdersTab), store, calc, cfg.Pricing.FallbackRate)
	locks := inventory.NewLockStore(table.Subtable(cfg.Sheets.LocksTab), store)
	agg := inventory.NewAggregator(led, cat, locks, store, cfg.Pricing.MaxKitsPerProduct)
	set := settings.NewService(table.Subtable(cfg.Sheets.SettingsTab), store)

	var uploaders []imagestore.Uploader
	if cfg.Uploads.DriveToken != "" {
		uploaders = append(uploaders, imagestore.NewDriveUploader(cfg.Uploads.DriveToken, cfg.Uploads.DriveFolderID))
	}
	if cfg.Uploads.ImgHostAPIKey != "" {
		uploaders = append(uploaders, imagestore.NewImgHostUploader(cfg.Uploads.ImgHostAPIKey))
	}
	uploads := imagestore.NewChain(uploaders...)

	var sender notify.Sender
	if cfg.Telegram.BotToken != "" {
		sender = notify.NewTelegramSender(cfg.Telegram.BotToken)
	}
	directory := notify.NewDirectoryResolver(table.Subtable(cfg.Sheets.DirectoryTab), store)
	notifier := notify.NewDispatcher(sender, directory, cfg.Telegram.AdminChatID)

	h := handler.New(handler.Deps{
		Ledger:        led,
		Catalog:       cat,
		Inventory:     agg,
		Locks:         locks,
		Settings:      set,
		Rates:         rates,
		Uploads:       uploads,
		Notifier:      notifier,
		Store:         store,
		AdminPassword: cfg.App.AdminPassword,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      transport.NewRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
