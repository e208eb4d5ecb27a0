package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "BALANCER_LOAD_CEILING", "BALANCER_LOAD_INCREMENT", "DIRECTORY_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 100, cfg.BalancerLoadCeiling)
	assert.Equal(t, 15, cfg.BalancerLoadIncrement)
	assert.Empty(t, cfg.DirectoryFile)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "workstream.db")
	t.Setenv("BALANCER_LOAD_CEILING", "60")
	t.Setenv("BALANCER_LOAD_INCREMENT", "not-a-number")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "workstream.db", cfg.DBName)
	assert.Equal(t, 60, cfg.BalancerLoadCeiling)
	assert.Equal(t, 15, cfg.BalancerLoadIncrement)
}
