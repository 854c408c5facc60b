package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bogartqtpie/construction-inventory-web/internal/stub"
	"github.com/bogartqtpie/construction-inventory-web/pkg/logging"
	"github.com/bogartqtpie/construction-inventory-web/pkg/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not load .env: %v", err)
	}
	port := getenv("PORT", "8080")
	mode, err := stub.ParseMode(getenv("STUB_MODE", "ok"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := logging.Configure("stdout"); err != nil {
		log.Fatalf("logging setup error: %v", err)
	}
	defer logging.Sync()

	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetrics(reg, "checkout_stub")

	e := echo.New()
	e.HideBanner = true
	stub.New(stub.Config{Mode: mode, RejectError: getenv("STUB_REJECT_ERROR", "out of stock")}, m).Register(e, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + port, Handler: e, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("checkout-stub (%s) listening on :%s", mode, port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
