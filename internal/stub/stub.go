package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
	"github.com/bogartqtpie/construction-inventory-web/pkg/idempotency"
	"github.com/bogartqtpie/construction-inventory-web/pkg/logging"
	"github.com/bogartqtpie/construction-inventory-web/pkg/metrics"
)

type Mode string

const (
	ModeOK     Mode = "ok"
	ModeNoSale Mode = "nosale"
	ModeReject Mode = "reject"
	ModeHTML   Mode = "html"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOK, ModeNoSale, ModeReject, ModeHTML:
		return m, nil
	case "":
		return ModeOK, nil
	default:
		return "", fmt.Errorf("unknown stub mode %q", s)
	}
}

type Config struct {
	Mode        Mode
	RejectError string
}

// Server fakes the inventory app's checkout endpoint for local runs.
type Server struct {
	cfg     Config
	metrics *metrics.ServerMetrics

	mu      sync.Mutex
	lastID  int64
	replays map[string]int64
}

func New(cfg Config, m *metrics.ServerMetrics) *Server {
	if cfg.Mode == "" {
		cfg.Mode = ModeOK
	}
	if cfg.RejectError == "" {
		cfg.RejectError = "out of stock"
	}
	return &Server{cfg: cfg, metrics: m, replays: map[string]int64{}}
}

func (s *Server) Register(e *echo.Echo, g prometheus.Gatherer) {
	e.Use(s.observe)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(g)))
	e.POST(contracts.CheckoutPath, s.checkout)
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		if s.metrics != nil {
			handler := c.Path()
			s.metrics.Requests.WithLabelValues(handler, strconv.Itoa(c.Response().Status)).Inc()
			s.metrics.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
		}
		return nil
	}
}

func (s *Server) checkout(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid or missing JSON data"})
	}
	items, errMsg := parseItems(body)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": errMsg})
	}

	key := idempotency.Key(c.Request())
	logging.Log(logging.Fields{Service: "checkout-stub", IdempotencyKey: key, Step: "checkout", Status: string(s.cfg.Mode), Items: items, Message: "checkout received"})

	switch s.cfg.Mode {
	case ModeReject:
		return c.JSON(http.StatusBadRequest, map[string]any{"error": s.cfg.RejectError})
	case ModeHTML:
		return c.HTML(http.StatusBadGateway, "<html><body><h1>502 Bad Gateway</h1></body></html>")
	case ModeNoSale:
		return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Checkout successful"})
	}

	saleID := s.saleFor(key)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Checkout successful",
		"sale_id": saleID,
		"low":     []any{},
	})
}

// saleFor allocates the next sale id, replaying the earlier one for a
// repeated idempotency key.
func (s *Server) saleFor(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key != "" {
		if id, ok := s.replays[key]; ok {
			return id
		}
	}
	s.lastID++
	if key != "" {
		s.replays[key] = s.lastID
	}
	return s.lastID
}

// parseItems accepts the shapes the inventory server accepts: "items" or
// "cart", each entry with "material_id" or "id" and a "qty" given as a
// number or numeric string. A missing qty counts as zero.
func parseItems(body []byte) (int, string) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil || len(data) == 0 {
		return 0, "Invalid or missing JSON data"
	}

	raw, ok := data["items"]
	if !ok || raw == nil {
		raw = data["cart"]
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return 0, "No items provided"
	}
	for _, entry := range list {
		item, ok := entry.(map[string]any)
		if !ok {
			return 0, "each item must have material_id and a numeric qty"
		}
		id := item["material_id"]
		if id == nil {
			id = item["id"]
		}
		if id == nil || fmt.Sprint(id) == "" || !numericQty(item["qty"]) {
			return 0, "each item must have material_id and a numeric qty"
		}
	}
	return len(list), ""
}

func numericQty(v any) bool {
	var err error
	switch q := v.(type) {
	case nil:
		return true
	case json.Number:
		_, err = q.Float64()
	case string:
		_, err = strconv.ParseFloat(strings.TrimSpace(q), 64)
	default:
		return false
	}
	return err == nil
}
