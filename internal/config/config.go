package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env            string
	Port           int
	APIBaseURL     string
	StoreDriver    string
	StorePath      string
	StoreDSN       string
	StoreNamespace string
	DownloadsDir   string
	PollInterval   time.Duration
	PaymentDelay   time.Duration
	SuccessDelay   time.Duration
	HTTPTimeout    time.Duration
	LogJSON        bool
	TraceEnabled   bool
	Demo           bool
	DemoJWTSecret  string
}

func Default() Config {
	return Config{
		Env:            "dev",
		Port:           3000,
		APIBaseURL:     "http://localhost:5000/api",
		StoreDriver:    "file",
		StorePath:      "./goldmart-store.json",
		StoreDSN:       "",
		StoreNamespace: "default",
		DownloadsDir:   "./downloads",
		PollInterval:   5 * time.Second,
		PaymentDelay:   1200 * time.Millisecond,
		SuccessDelay:   1000 * time.Millisecond,
		HTTPTimeout:    15 * time.Second,
		LogJSON:        true,
		TraceEnabled:   false,
		DemoJWTSecret:  "goldmart-demo",
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	if v := os.Getenv("GOLDMART_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("GOLDMART_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("GOLDMART_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("GOLDMART_STORE"); v != "" {
		c.StoreDriver = v
	}
	if v := os.Getenv("GOLDMART_STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("GOLDMART_STORE_DSN"); v != "" {
		c.StoreDSN = v
	}
	if v := os.Getenv("GOLDMART_STORE_NAMESPACE"); v != "" {
		c.StoreNamespace = v
	}
	if v := os.Getenv("GOLDMART_DOWNLOADS_DIR"); v != "" {
		c.DownloadsDir = v
	}
	c.PollInterval = durationEnv("GOLDMART_POLL_INTERVAL", c.PollInterval)
	c.PaymentDelay = durationEnv("GOLDMART_PAYMENT_DELAY", c.PaymentDelay)
	c.SuccessDelay = durationEnv("GOLDMART_SUCCESS_DELAY", c.SuccessDelay)
	c.HTTPTimeout = durationEnv("GOLDMART_HTTP_TIMEOUT", c.HTTPTimeout)
	c.LogJSON = boolEnv("GOLDMART_LOG_JSON", c.LogJSON)
	c.TraceEnabled = boolEnv("GOLDMART_TRACE", c.TraceEnabled)
	c.Demo = boolEnv("GOLDMART_DEMO", c.Demo)
	if v := os.Getenv("GOLDMART_DEMO_JWT_SECRET"); v != "" {
		c.DemoJWTSecret = v
	}
	return c
}

func durationEnv(key string, d time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	if p, err := time.ParseDuration(v); err == nil {
		return p
	}
	return d
}

func boolEnv(key string, b bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE":
		return true
	case "0", "false", "FALSE":
		return false
	}
	return b
}
