package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"goldmart/internal/app"
	"goldmart/internal/backendtest"
	"goldmart/internal/clientstore"
	"goldmart/internal/config"
	"goldmart/internal/domain"
	"goldmart/internal/env"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
	"goldmart/internal/trace"
)

func main() {
	env.Load(".env", ".env.local")
	envDefaults := config.EnvDefaults()

	envName := flag.String("env", envDefaults.Env, "")
	port := flag.Int("port", envDefaults.Port, "")
	apiURL := flag.String("api", envDefaults.APIBaseURL, "backend REST base URL")
	storeDriver := flag.String("store", envDefaults.StoreDriver, "memory, file or postgres")
	storePath := flag.String("store-path", envDefaults.StorePath, "")
	storeDSN := flag.String("store-dsn", envDefaults.StoreDSN, "")
	storeNS := flag.String("store-namespace", envDefaults.StoreNamespace, "")
	downloads := flag.String("downloads", envDefaults.DownloadsDir, "")
	pollInterval := flag.Duration("poll-interval", envDefaults.PollInterval, "")
	paymentDelay := flag.Duration("payment-delay", envDefaults.PaymentDelay, "")
	successDelay := flag.Duration("success-delay", envDefaults.SuccessDelay, "")
	httpTimeout := flag.Duration("http-timeout", envDefaults.HTTPTimeout, "")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "")
	traceOn := flag.Bool("trace", envDefaults.TraceEnabled, "export spans over OTLP")
	demo := flag.Bool("demo", envDefaults.Demo, "serve an in-process backend next to the gateway")
	demoSecret := flag.String("demo-jwt-secret", envDefaults.DemoJWTSecret, "")

	flag.Parse()

	cfg := config.Config{
		Env:            *envName,
		Port:           *port,
		APIBaseURL:     *apiURL,
		StoreDriver:    *storeDriver,
		StorePath:      *storePath,
		StoreDSN:       *storeDSN,
		StoreNamespace: *storeNS,
		DownloadsDir:   *downloads,
		PollInterval:   *pollInterval,
		PaymentDelay:   *paymentDelay,
		SuccessDelay:   *successDelay,
		HTTPTimeout:    *httpTimeout,
		LogJSON:        *logJSON,
		TraceEnabled:   *traceOn,
		Demo:           *demo,
		DemoJWTSecret:  *demoSecret,
	}

	log := logger.New(cfg.Env, cfg.LogJSON)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TraceEnabled {
		tp, err := trace.InitTracer(ctx)
		if err != nil {
			log.Error("init tracer", sl.Err(err))
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error("tracer shutdown", sl.Err(err))
			}
		}()
	}

	if cfg.Demo {
		url, err := serveDemo(ctx, cfg, log)
		if err != nil {
			log.Error("demo backend", sl.Err(err))
			os.Exit(1)
		}
		cfg.APIBaseURL = url
	}

	store, err := clientstore.Open(cfg)
	if err != nil {
		log.Error("open client store", sl.Err(err), slog.String("driver", cfg.StoreDriver))
		os.Exit(1)
	}

	application := app.New(cfg, store, nil, log)
	if err := application.Run(ctx); err != nil {
		log.Error("gateway", sl.Err(err))
		os.Exit(1)
	}
	log.Info("stopped")
}

// serveDemo starts the in-process backend on a loopback port and returns its
// API base URL. It stops with ctx.
func serveDemo(ctx context.Context, cfg config.Config, log *slog.Logger) (string, error) {
	b := backendtest.New(backendtest.Options{
		JWTSecret:     cfg.DemoJWTSecret,
		AdminEmail:    "admin@goldmart.local",
		AdminPassword: "admin123",
	})
	seedDemo(b)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	srv := &http.Server{Handler: b.Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("demo backend stopped", sl.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	url := "http://" + ln.Addr().String() + "/api"
	log.Info("demo backend", slog.String("api", url), slog.String("admin", "admin@goldmart.local"))
	return url, nil
}

func seedDemo(b *backendtest.Backend) {
	for _, p := range []domain.Product{
		{Name: "Temple Necklace", Category: "Necklaces", Price: decimal.NewFromInt(84500), Stock: 4, Image: "temple-necklace.jpg"},
		{Name: "Kundan Jhumkas", Category: "Earrings", Price: decimal.NewFromInt(18900), Stock: 12, Image: "kundan-jhumkas.jpg"},
		{Name: "Solitaire Ring", Category: "Rings", Price: decimal.NewFromInt(42000), Stock: 6, Image: "solitaire-ring.jpg"},
		{Name: "Filigree Bangle Pair", Category: "Bangles", Price: decimal.NewFromInt(56250), Stock: 3, Image: "filigree-bangles.jpg"},
		{Name: "Nose Pin", Category: "Nose Pins", Price: decimal.NewFromInt(3150), Stock: 25, Image: "nose-pin.jpg"},
	} {
		b.SeedProduct(p)
	}
}
