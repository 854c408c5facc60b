package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bogartqtpie/construction-inventory-web/internal/audit"
	"github.com/bogartqtpie/construction-inventory-web/internal/cart"
	"github.com/bogartqtpie/construction-inventory-web/internal/checkout"
	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
	"github.com/bogartqtpie/construction-inventory-web/pkg/kafka"
	"github.com/bogartqtpie/construction-inventory-web/pkg/logging"
	"github.com/bogartqtpie/construction-inventory-web/pkg/metrics"
	"github.com/bogartqtpie/construction-inventory-web/pkg/outbox"
)

const service = "pos-cli"

type cfg struct {
	BaseURL        string
	RequestTimeout time.Duration
	Materials      string
	LogFile        string
	MetricsAddr    string
	KafkaBrokers   string
	KafkaTopic     string
	DatabaseURL    string
}

func readCfg() (cfg, error) {
	toutMS, err := strconv.Atoi(getenv("POS_REQUEST_TIMEOUT_MS", "0"))
	if err != nil || toutMS < 0 {
		return cfg{}, fmt.Errorf("POS_REQUEST_TIMEOUT_MS must be a non-negative integer")
	}
	return cfg{
		BaseURL:        strings.TrimRight(getenv("POS_BASE_URL", "http://localhost:8080"), "/"),
		RequestTimeout: time.Duration(toutMS) * time.Millisecond,
		Materials:      getenv("POS_MATERIALS", "1:Cement,2:Sand,3:Gravel,4:Rebar 10mm"),
		LogFile:        getenv("POS_LOG_FILE", "pos-cli.log"),
		MetricsAddr:    getenv("METRICS_ADDR", ""),
		KafkaBrokers:   getenv("KAFKA_BROKERS", ""),
		KafkaTopic:     getenv("KAFKA_TOPIC", "pos.checkout"),
		DatabaseURL:    getenv("DATABASE_URL", ""),
	}, nil
}

type itemFlags []contracts.LineItem

func (f *itemFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, it := range *f {
		parts = append(parts, fmt.Sprintf("%s:%d", it.MaterialID, it.Qty))
	}
	return strings.Join(parts, ",")
}

func (f *itemFlags) Set(v string) error {
	it, err := cart.ParseItem(v)
	if err != nil {
		return err
	}
	*f = append(*f, it)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not load .env: %v", err)
	}

	runCmd := flag.String("run", "", "run headless: checkout|bench")
	var items itemFlags
	flag.Var(&items, "item", "cart line as material_id:qty (repeatable)")
	total := flag.Int("n", 50, "bench: number of submissions")
	workers := flag.Int("c", 5, "bench: concurrent workers")
	flag.Parse()

	cfg, err := readCfg()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logOutput := cfg.LogFile
	if *runCmd != "" {
		logOutput = "stderr"
	}
	if err := logging.Configure(logOutput); err != nil {
		log.Fatalf("logging setup error: %v", err)
	}
	defer logging.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	observers, closeObservers, err := buildObservers(ctx, cfg)
	if err != nil {
		log.Fatalf("observer setup error: %v", err)
	}
	defer closeObservers()

	client := &http.Client{Timeout: cfg.RequestTimeout}
	base := checkout.Config{
		BaseURL:   cfg.BaseURL,
		Client:    client,
		Service:   service,
		Observers: observers,
	}

	switch *runCmd {
	case "":
		catalog, err := cart.ParseCatalog(cfg.Materials)
		if err != nil {
			log.Fatalf("config error: POS_MATERIALS: %v", err)
		}
		p := tea.NewProgram(initialModel(base, catalog))
		if _, err := p.Run(); err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
	case "checkout":
		if len(items) == 0 {
			log.Fatal("checkout: at least one -item is required")
		}
		view := &consoleView{w: os.Stdout, baseURL: cfg.BaseURL}
		checkout.NewSubmitter(base, view, view).Submit(ctx, items)
	case "bench":
		if len(items) == 0 {
			items = itemFlags{{MaterialID: "1", Qty: 1}}
		}
		fmt.Println(runBenchmark(ctx, base, items, *total, *workers))
	default:
		log.Fatalf("unknown -run %q (want checkout|bench)", *runCmd)
	}
}

// buildObservers wires metrics and, when configured, the outcome audit trail.
// With DATABASE_URL set outcomes go to the outbox for the relay; otherwise
// KAFKA_BROKERS publishes them directly.
func buildObservers(ctx context.Context, cfg cfg) ([]checkout.Observer, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	reg := prometheus.NewRegistry()
	observers := []checkout.Observer{checkout.MetricsObserver(metrics.NewClientMetrics(reg, "cli"))}
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Log(logging.Fields{Service: service, Step: "metrics", Message: "metrics server stopped", Err: err})
			}
		}()
		closers = append(closers, func() { _ = srv.Close() })
	}

	switch {
	case cfg.DatabaseURL != "":
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := pool.Ping(dbCtx); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		if err := outbox.EnsureSchema(dbCtx, pool); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("outbox schema: %w", err)
		}
		observers = append(observers, &audit.OutboxPublisher{Store: outbox.Store{DB: pool}, Topic: cfg.KafkaTopic})
	case cfg.KafkaBrokers != "":
		kc := kafka.NewClient(cfg.KafkaBrokers)
		if kc.Enabled() {
			w := kc.NewWriter(cfg.KafkaTopic)
			closers = append(closers, func() { _ = w.Close() })
			observers = append(observers, &audit.KafkaPublisher{Writer: w})
		}
	}

	return observers, closeAll, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
