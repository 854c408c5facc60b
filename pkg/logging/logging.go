package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields struct {
	Service        string
	IdempotencyKey string
	SaleID         string
	Step           string
	Status         string
	HTTPStatus     int
	Items          int
	DurationMS     int64
	Body           string
	Message        string
	Err            error
}

var current atomic.Pointer[zap.Logger]

func init() {
	l, err := build("stderr")
	if err != nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Configure sends log records to outputPath ("stderr", "stdout" or a file).
func Configure(outputPath string) error {
	l, err := build(outputPath)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

func Logger() *zap.Logger {
	return current.Load()
}

func Sync() {
	_ = Logger().Sync()
}

// Log writes one structured record. Records carrying Err are logged at
// error level.
func Log(f Fields) {
	zf := []zap.Field{zap.String("service", f.Service)}
	if f.IdempotencyKey != "" {
		zf = append(zf, zap.String("idempotency_key", f.IdempotencyKey))
	}
	if f.SaleID != "" {
		zf = append(zf, zap.String("sale_id", f.SaleID))
	}
	if f.Step != "" {
		zf = append(zf, zap.String("step", f.Step))
	}
	if f.Status != "" {
		zf = append(zf, zap.String("status", f.Status))
	}
	if f.HTTPStatus != 0 {
		zf = append(zf, zap.Int("http_status", f.HTTPStatus))
	}
	if f.Items != 0 {
		zf = append(zf, zap.Int("items", f.Items))
	}
	if f.DurationMS != 0 {
		zf = append(zf, zap.Int64("duration_ms", f.DurationMS))
	}
	if f.Body != "" {
		zf = append(zf, zap.String("body", f.Body))
	}

	l := Logger()
	if f.Err != nil {
		l.Error(f.Message, append(zf, zap.Error(f.Err))...)
		return
	}
	l.Info(f.Message, zf...)
}

func build(outputPath string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.OutputPaths = []string{outputPath}
	cfg.ErrorOutputPaths = []string{outputPath}
	cfg.Sampling = nil
	return cfg.Build()
}
