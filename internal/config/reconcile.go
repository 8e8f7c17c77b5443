package config

import (
	"os"
	"strconv"
	"time"
)

type ReconcileConfig struct {
	TxTimeout       time.Duration
	SummaryCacheTTL time.Duration
	QRCodeTimeout   time.Duration
	ResetTokenTTL   time.Duration
	MaxRecordValue  int64
}

func LoadReconcileConfig() *ReconcileConfig {
	return &ReconcileConfig{
		TxTimeout:       getEnvAsDuration("RECONCILE_TX_TIMEOUT", 5*time.Second),
		SummaryCacheTTL: getEnvAsDuration("SUMMARY_CACHE_TTL", 5*time.Minute),
		QRCodeTimeout:   getEnvAsDuration("CARD_QR_TIMEOUT", 5*time.Minute),
		ResetTokenTTL:   getEnvAsDuration("RESET_TOKEN_TTL", 30*time.Minute),
		MaxRecordValue:  getEnvAsInt64("MAX_RECORD_VALUE", 1_000_000_000),
	}
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
