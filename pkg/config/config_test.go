package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, "./public", cfg.HTTP.StaticDir)
	assert.Equal(t, 8, cfg.Ledger.WorkOrderCodeAttempts)
	assert.Equal(t, 1440, cfg.Redis.IdempotencyTTLMinutes)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Scheduler.LowStockSchedule)
	assert.Equal(t, "postgres://postgres:@localhost:5432/stock_ledger?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_PortCaeEnPORT(t *testing.T) {
	v := viper.New()
	v.Set("PORT", "8081")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.HTTP.Port)

	v.Set("HTTP_PORT", 9000)
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTP.Port)
}

func TestFromViper_DatabaseURLTienePrioridad(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	v.Set("DB_HOST", "otro")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=require", c.DSN())
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("WO_CODE_ATTEMPTS", "0")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("HTTP_PORT", 70000)
	_, err = fromViper(v)
	assert.Error(t, err)
}
