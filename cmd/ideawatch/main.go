package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/marketbrief/ideawatch/internal/alerts"
	"github.com/marketbrief/ideawatch/internal/bot"
	"github.com/marketbrief/ideawatch/internal/config"
	"github.com/marketbrief/ideawatch/internal/detector"
	"github.com/marketbrief/ideawatch/internal/feeds/listing"
	"github.com/marketbrief/ideawatch/internal/feeds/newsapi"
	"github.com/marketbrief/ideawatch/internal/feeds/prices"
	"github.com/marketbrief/ideawatch/internal/ideas"
	"github.com/marketbrief/ideawatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	log.Info("Starting ideawatch service...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogFileMaxSizeMB,
			MaxBackups: cfg.LogFileMaxBackups,
			Compress:   true,
		})
	}

	log.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"poll_interval":   cfg.PollInterval.String(),
		"alert_threshold": cfg.AlertThreshold,
		"alert_mode":      cfg.AlertMode,
		"telegram_token":  cfg.MaskedTelegramToken(),
		"news_api_key":    cfg.MaskedNewsAPIKey(),
	}).Info("Configuration loaded")

	// Initialize feed clients
	newsClient := newsapi.NewClient(cfg, log)
	listingClient := listing.NewClient(cfg, log)
	priceClient := prices.NewClient(cfg, log)

	log.Info("Feed clients initialized")

	// Initialize the idea synthesis chain
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	orchestrator := ideas.NewOrchestrator(
		ideas.NewNewsSynthesizer(newsClient, rng, log),
		ideas.NewMacroSynthesizer(listingClient, rng, log),
		ideas.NewPoliticsSynthesizer(listingClient, rng, log),
		ideas.NewPriceSynthesizer(priceClient, rng, log),
		rng, log,
	)
	cache := ideas.NewCache(cfg.IdeaCacheSize)

	// Initialize detector and transport
	det := detector.New(cfg.AlertThreshold, log)
	registry := bot.NewRegistry()
	tgBot := bot.New(cfg, registry, cache, log)

	// Initialize alert sender
	alertSender := createAlertSender(cfg, tgBot, log)

	log.WithField("alert_mode", cfg.AlertMode).Info("Alert sender initialized")

	// Start HTTP server (health + metrics)
	go startHTTPServer(cfg.HealthPort, log)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start Telegram command loop
	go tgBot.Run(ctx)

	svc := &service{
		cfg:           cfg,
		orchestrator:  orchestrator,
		cache:         cache,
		detector:      det,
		listingClient: listingClient,
		tgBot:         tgBot,
		alertSender:   alertSender,
		registry:      registry,
		log:           log,
	}

	// First tick after a warm-up delay, then fixed-interval polling
	warmup := time.NewTimer(cfg.WarmupDelay)
	defer warmup.Stop()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	log.WithFields(logrus.Fields{
		"warmup_delay":  cfg.WarmupDelay.String(),
		"poll_interval": cfg.PollInterval.String(),
	}).Info("Starting processing loop")

	for {
		select {
		case <-warmup.C:
			svc.runTick(ctx)
		case <-ticker.C:
			svc.runTick(ctx)
		case sig := <-sigChan:
			log.WithField("signal", sig).Info("Received shutdown signal")
			cancel()
			log.Info("Graceful shutdown complete")
			return
		case <-ctx.Done():
			log.Info("Context cancelled, shutting down")
			return
		}
	}
}

// service bundles the wired components for the periodic tick.
type service struct {
	cfg           *config.Config
	orchestrator  *ideas.Orchestrator
	cache         *ideas.Cache
	detector      *detector.Detector
	listingClient *listing.Client
	tgBot         *bot.Bot
	alertSender   alerts.Sender
	registry      *bot.Registry
	log           *logrus.Logger
}

// runTick performs one full pass: draft an idea and broadcast it, then scan
// the listing feed for price moves.
func (s *service) runTick(ctx context.Context) {
	// Idea generation
	idea := s.orchestrator.GenerateIdea(ctx)
	s.cache.Push(idea)

	s.log.WithFields(logrus.Fields{
		"idea_id":  idea.ID,
		"category": idea.Category,
		"title":    idea.Title,
	}).Info("Idea generated")

	if s.registry.Count() > 0 {
		if err := s.tgBot.Broadcast(ctx, bot.FormatIdea(idea, 0)); err != nil {
			s.log.WithError(err).Error("Failed to broadcast idea")
		}
	}

	// Price alert scan
	events := s.detector.Scan(s.listingClient.ActiveMarkets(ctx))
	for _, ev := range events {
		payload := &alerts.AlertPayload{
			Question:    ev.Question,
			OldPrice:    ev.OldPrice,
			NewPrice:    ev.NewPrice,
			MarketURL:   ev.URL,
			Timestamp:   time.Now().UTC(),
			Environment: s.cfg.Environment,
		}
		if err := s.alertSender.Send(ctx, payload); err != nil {
			s.log.WithError(err).WithField("market", ev.Question).Error("Failed to send alert")
		}
	}

	if len(events) > 0 {
		s.log.WithField("count", len(events)).Info("Price alerts dispatched")
	}
}

func createAlertSender(cfg *config.Config, tgBot *bot.Bot, log *logrus.Logger) alerts.Sender {
	var senders []alerts.Sender

	for _, mode := range strings.Split(cfg.AlertMode, ",") {
		switch strings.TrimSpace(mode) {
		case "log":
			senders = append(senders, alerts.NewLogSender(log))
		case "telegram":
			senders = append(senders, alerts.NewTelegramSender(tgBot))
		case "discord":
			if cfg.DiscordWebhookURL != "" {
				senders = append(senders, alerts.NewDiscordSender(cfg.DiscordWebhookURL))
			} else {
				log.Warn("Discord mode specified but DISCORD_WEBHOOK_URL not set")
			}
		case "smtp":
			if cfg.SMTPHost != "" {
				senders = append(senders, alerts.NewSMTPSender(
					cfg.SMTPHost,
					cfg.SMTPPort,
					cfg.SMTPUser,
					cfg.SMTPPassword,
					cfg.SMTPFrom,
					cfg.SMTPTo,
				))
			} else {
				log.Warn("SMTP mode specified but SMTP_HOST not set")
			}
		default:
			log.WithField("mode", mode).Warn("Unknown alert mode, skipping")
		}
	}

	if len(senders) == 0 {
		log.Warn("No valid alert senders configured, using log")
		return alerts.NewLogSender(log)
	}
	if len(senders) == 1 {
		return senders[0]
	}
	return alerts.NewMultiSender(senders...)
}

func startHTTPServer(port int, log *logrus.Logger) {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHealthCheck(true)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy"}`)
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHealthCheck(true)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ready"}`)
	})

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.WithField("port", port).Info("Starting HTTP server (health + metrics)")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("HTTP server failed")
	}
}
