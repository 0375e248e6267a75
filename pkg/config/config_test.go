package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.True(t, cfg.Expense.ManagerApprovalLimit.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout())
	assert.Equal(t, time.Hour, cfg.JWT.TTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("LEDGER_MAX_RETRIES", "5")
	t.Setenv("EXPENSE_MANAGER_APPROVAL_LIMIT", "1500.50")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("DB_MIGRATE_ON_START", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.True(t, cfg.Expense.ManagerApprovalLimit.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.True(t, cfg.DB.MigrateOnStart)
}

func TestLoad_Invalida(t *testing.T) {
	t.Run("límite no numérico", func(t *testing.T) {
		t.Setenv("EXPENSE_MANAGER_APPROVAL_LIMIT", "mucho")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("producción sin secreto", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("backend desconocido", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "sqlite")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "gestion", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/gestion?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
