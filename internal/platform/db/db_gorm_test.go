package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestBuildDSN はPostgreSQL用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name: "key value",
			cfg: Config{
				User: "testuser", Password: "testpass", Name: "testdb",
				Host: "localhost", Port: "5432", SSLMode: "require",
			},
			expected: "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=require TimeZone=UTC",
		},
		{
			name:     "sslmode defaults to disable",
			cfg:      Config{User: "u", Password: "p", Name: "d", Host: "db", Port: "5432"},
			expected: "host=db user=u password=p dbname=d port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name: "database url takes precedence",
			cfg: Config{
				DatabaseURL: "postgres://u:p@db:5432/jobtrack?sslmode=disable",
				Host:        "ignored", Port: "1",
			},
			expected: "postgres://u:p@db:5432/jobtrack?sslmode=disable",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, BuildDSN(tt.cfg))
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener, zap.NewNop())

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel: shortens the package-level retry interval
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener, zap.NewNop())

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attemptCount)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	refused := errors.New("connection refused")
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, refused
	}

	// Negative timeout: the first failure is already past the deadline
	_, err := ConnectWithRetry("test-dsn", -time.Second, opener, zap.NewNop())

	assert.ErrorIs(t, err, refused)
	assert.Equal(t, 1, attemptCount)
}

func TestOpenDB_SQLiteMemory(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: DriverSQLite, SQLitePath: ":memory:", RunMigrations: true}, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("applications"))
	assert.True(t, db.Config.TranslateError)
	assert.Equal(t, time.UTC, db.Config.NowFunc().Location())
}

func TestOpenDB_NoMigrations(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: DriverSQLite, SQLitePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, db.Migrator().HasTable("users"))
}

func TestOpenDB_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := OpenDB(Config{Driver: "mysql"}, zap.NewNop())

	assert.Error(t, err)
}
