package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level zapcore.Level, gormLevel gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	return NewGormLogger(zap.New(core), gormLevel, opts...), recorded
}

func TestNewGormLogger(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

		require.NotNil(t, gormLog)
		assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	})

	t.Run("options override threshold and not-found handling", func(t *testing.T) {
		gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info,
			WithSlowThreshold(500*time.Millisecond),
			WithIgnoreRecordNotFoundError(false),
		)

		assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
		assert.False(t, gormLog.ignoreRecordNotFoundError)
	})

	t.Run("satisfies the gorm logger interface", func(t *testing.T) {
		gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)
		var _ gormlogger.Interface = gormLog
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	derived := gormLog.LogMode(gormlogger.Warn)

	// LogMode returns a copy so the shared logger keeps its level.
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	derivedGorm, ok := derived.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, derivedGorm.logLevel)
}

func TestGormLogger_Levels(t *testing.T) {
	t.Run("info passes through", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

		gormLog.Info(context.Background(), "migrated %s", "sales")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "migrated sales")
	})

	t.Run("silent suppresses info", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Silent)

		gormLog.Info(context.Background(), "migrated sales")

		assert.Empty(t, recorded.All())
	})

	t.Run("warn carries the zap level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn)

		gormLog.Warn(context.Background(), "pool nearly exhausted: %d in use", 24)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "pool nearly exhausted: 24 in use")
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	})

	t.Run("error carries the zap level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)

		gormLog.Error(context.Background(), "batch insert failed")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed query logs SQL Error", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)

		fc := func() (string, int64) {
			return "INSERT INTO sales (id, customer_id, product_id) VALUES (?, ?, ?)", 0
		}
		gormLog.Trace(context.Background(), time.Now(), fc, errors.New("duplicate key value"))

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SQL Error")
	})

	t.Run("record-not-found is ignored when configured", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error,
			WithIgnoreRecordNotFoundError(true))

		fc := func() (string, int64) {
			return "SELECT * FROM customers WHERE id = ?", 0
		}
		gormLog.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("queries over the threshold log SLOW SQL", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn,
			WithSlowThreshold(1*time.Nanosecond))

		begin := time.Now().Add(-1 * time.Second)
		fc := func() (string, int64) {
			return "SELECT SUM(quantity * unit_price) FROM sales WHERE sale_date BETWEEN ? AND ?", 1
		}
		gormLog.Trace(context.Background(), begin, fc, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("normal query logs SQL Query with row count", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

		fc := func() (string, int64) {
			return "SELECT * FROM products WHERE category = ?", 5
		}
		gormLog.Trace(context.Background(), time.Now(), fc, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SQL Query")
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Silent)

		fc := func() (string, int64) {
			return "SELECT * FROM products", 5
		}
		gormLog.Trace(context.Background(), time.Now(), fc, nil)

		assert.Empty(t, recorded.All())
	})

	t.Run("request ID from the context is attached", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

		ctx := WithRequestID(context.Background(), "req-ingest-42")
		fc := func() (string, int64) {
			return "INSERT INTO customers (id, email) VALUES (?, ?)", 1
		}
		gormLog.Trace(ctx, time.Now(), fc, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "req-ingest-42", logs[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
