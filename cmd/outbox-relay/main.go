package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/bogartqtpie/construction-inventory-web/internal/audit"
	"github.com/bogartqtpie/construction-inventory-web/pkg/kafka"
	"github.com/bogartqtpie/construction-inventory-web/pkg/logging"
	"github.com/bogartqtpie/construction-inventory-web/pkg/outbox"
)

const service = "outbox-relay"

type cfg struct {
	DatabaseURL  string
	KafkaBrokers string
	KafkaTopic   string
	Interval     time.Duration
	Batch        int
}

func readCfg() (cfg, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return cfg{}, errors.New("DATABASE_URL is required")
	}
	brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if brokers == "" {
		return cfg{}, errors.New("KAFKA_BROKERS is required")
	}
	intervalMS, err := strconv.Atoi(getenv("RELAY_INTERVAL_MS", "1000"))
	if err != nil || intervalMS <= 0 {
		return cfg{}, errors.New("RELAY_INTERVAL_MS must be a positive integer")
	}
	batch, err := strconv.Atoi(getenv("RELAY_BATCH", "100"))
	if err != nil || batch <= 0 {
		return cfg{}, errors.New("RELAY_BATCH must be a positive integer")
	}
	return cfg{
		DatabaseURL:  db,
		KafkaBrokers: brokers,
		KafkaTopic:   getenv("KAFKA_TOPIC", "pos.checkout"),
		Interval:     time.Duration(intervalMS) * time.Millisecond,
		Batch:        batch,
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not load .env: %v", err)
	}
	cfg, err := readCfg()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := logging.Configure("stdout"); err != nil {
		log.Fatalf("logging setup error: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(dbCtx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	if err := outbox.EnsureSchema(dbCtx, pool); err != nil {
		log.Fatalf("outbox schema error: %v", err)
	}

	w := kafka.NewClient(cfg.KafkaBrokers).NewWriter(cfg.KafkaTopic)
	defer func() { _ = w.Close() }()

	logging.Log(logging.Fields{Service: service, Step: "start", Message: "relaying outbox to " + cfg.KafkaTopic})
	relay := &audit.Relay{Store: outbox.Store{DB: pool}, Writer: w, Batch: cfg.Batch, Interval: cfg.Interval}
	if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Log(logging.Fields{Service: service, Step: "stop", Message: "relay stopped", Err: err})
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
