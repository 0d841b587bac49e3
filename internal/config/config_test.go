package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "SERVER_PORT", "DB_DRIVER", "DATABASE_URL", "AUTO_MIGRATE", "LOG_LEVEL", "KAFKA_BROKERS", "KAFKA_TOPIC"} {
		t.Setenv(k, "")
	}

	cfg := Load("")
	require.NotNil(t, cfg)

	assert.Equal(t, "shopcarts", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "shopcart_events", cfg.KafkaTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("KAFKA_BROKERS", "kafka:9092, kafka2:9092,,")

	cfg := Load("")

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)

	cfg.DatabaseURL = ""
	cfg.Validate()
	assert.NotEmpty(t, cfg.DatabaseURL)
}

func TestEnvIntDefault_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, EnvIntDefault("SOME_INT", 7))
}
