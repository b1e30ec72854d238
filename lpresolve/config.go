package lpresolve

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/meteoraapi"
)

// Env var names.
const (
	EnvRPCURL     = "SOLANA_RPC_URL"
	EnvDammAPI    = "METEORA_DAMM_API"
	EnvDlmmAPI    = "METEORA_DLMM_API"
	EnvTimeout    = "LPRESOLVE_TIMEOUT"
	EnvLogLevel   = "LPRESOLVE_LOG_LEVEL"
	EnvRPCRetries = "LPRESOLVE_RPC_RETRIES"
	EnvListenAddr = "LPRESOLVE_ADDR"
)

type Config struct {
	RPCURL     string
	DammURL    string
	DlmmURL    string
	Timeout    time.Duration
	LogLevel   logrus.Level
	RPCRetries int
	ListenAddr string
}

func DefaultConfig() Config {
	return Config{
		DammURL:    meteoraapi.DefaultDammURL,
		DlmmURL:    meteoraapi.DefaultDlmmURL,
		Timeout:    chain.DefaultTimeout,
		LogLevel:   logrus.InfoLevel,
		ListenAddr: ":8080",
	}
}

// ConfigFromEnv reads the environment, loading .env first when present.
// Values already set in the environment win over .env.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.RPCURL = strings.TrimSpace(os.Getenv(EnvRPCURL))
	if v := strings.TrimSpace(os.Getenv(EnvDammAPI)); v != "" {
		cfg.DammURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDlmmAPI)); v != "" {
		cfg.DlmmURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid %s %q", EnvTimeout, v)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	if v := strings.TrimSpace(os.Getenv(EnvRPCRetries)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid %s %q", EnvRPCRetries, v)
		}
		cfg.RPCRetries = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvListenAddr)); v != "" {
		cfg.ListenAddr = v
	}
	return cfg, nil
}

// NewLogger returns a text logger with full timestamps.
func NewLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetLevel(level)
	return log
}
