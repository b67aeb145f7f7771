package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"omnitrade/internal/alert"
	"omnitrade/internal/arbitrage"
	"omnitrade/internal/collector"
	"omnitrade/internal/conditional"
	"omnitrade/internal/config"
	"omnitrade/internal/dca"
	"omnitrade/internal/exchange"
	"omnitrade/internal/notifier"
	"omnitrade/internal/portfolio"
	"omnitrade/internal/rebalance"
	"omnitrade/internal/recorder"
	"omnitrade/internal/scheduler"
	"omnitrade/internal/store"
	"omnitrade/internal/tools"
	"omnitrade/internal/wallet"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] omnitrade starting...")

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}
	log.Printf("[INFO] data dir: %s", st.Dir())

	// Init exchanges
	registry := exchange.NewRegistry()
	for _, exCfg := range cfg.Exchanges {
		registry.Add(exchange.NewBinance(exCfg.Name, exCfg.BaseURL, exCfg.APIKey, exCfg.APISecret, cfg.Proxy))
	}
	log.Printf("[INFO] exchanges: %v", registry.Names())

	// The first configured exchange is the primary market data source.
	primary, err := registry.Get(cfg.Exchanges[0].Name)
	if err != nil {
		log.Fatalf("[FATAL] primary exchange: %v", err)
	}
	source := collector.NewPriceSource(primary, cfg.QuoteAsset)

	// Init trading core
	walletMgr := wallet.NewManager(st, source, cfg.QuoteAsset)
	valuator := portfolio.NewValuator(walletMgr, source)
	history := portfolio.NewHistory(st)
	alerts := alert.NewManager(st, registry, cfg.QuoteAsset)
	conditionals := conditional.NewManager(st, registry, cfg.QuoteAsset, cfg.AutoExecute)
	dcaMgr := dca.NewManager(st, registry, cfg.QuoteAsset, cfg.AutoExecute)
	scanner := arbitrage.NewScanner(registry, cfg.QuoteAsset, cfg.AutoExecute)
	rebalancer := rebalance.NewExecutor(registry, cfg.AutoExecute)
	if cfg.AutoExecute {
		log.Println("[WARN] auto_execute is ON: triggered rules place real orders")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notification channels
	var channels []notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		channels = append(channels, notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy))
	}
	if cfg.Discord.WebhookURL != "" {
		channels = append(channels, notifier.NewDiscord(cfg.Discord.WebhookURL))
	}
	dispatcher := notifier.NewDispatcher(channels...)
	log.Printf("[INFO] notification channels: %d", len(channels))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tool registry
	svc := &tools.Service{
		Source:       source,
		Wallet:       walletMgr,
		Valuator:     valuator,
		History:      history,
		Alerts:       alerts,
		Conditionals: conditionals,
		DCA:          dcaMgr,
		Arbitrage:    scanner,
		Rebalancer:   rebalancer,
		Recorder:     rec,
		DataDir:      st.Dir(),
	}
	toolReg := tools.NewRegistry()
	svc.RegisterAll(toolReg)
	log.Printf("[INFO] %d tools registered", len(toolReg.List()))

	// Claim the pid file before scheduling anything.
	pidPath, err := scheduler.WritePidFile(st.Dir())
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer scheduler.RemovePidFile(st.Dir())
	log.Printf("[INFO] pid file: %s", pidPath)

	// Init scheduler
	daemon := scheduler.NewDaemon(ctx, alerts, conditionals, dcaMgr, valuator, history, dispatcher, rec)
	if err := daemon.Register(cfg.Schedule.CheckCron, cfg.Schedule.SnapshotCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	daemon.Start()
	defer daemon.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing check pass now")
		go daemon.CheckPass()
	}

	log.Println("[INFO] omnitrade is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] omnitrade stopped")
}
