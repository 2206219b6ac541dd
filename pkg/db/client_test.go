package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T) config.DBConfig {
	t.Helper()
	return config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}
}

func TestNewSQLiteAndPing(t *testing.T) {
	client, err := New(context.Background(), sqliteConfig(t), nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client, err := New(context.Background(), sqliteConfig(t), nil)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Exec(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY)`).Error)

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO t (id) VALUES (1)`).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, client.Raw(ctx, `SELECT COUNT(*) FROM t`).Scan(&count).Error)
	assert.Zero(t, count)
}
