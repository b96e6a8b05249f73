package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/pawsteps/pawsteps-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func logDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestPGHandler_OnlyHandlesErrors(t *testing.T) {
	h := NewPGHandler(logDB(t))
	defer h.Stop()

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPGHandler_PersistsStructuredFields(t *testing.T) {
	db := logDB(t)
	h := NewPGHandler(db)
	defer h.Stop()

	record := slog.NewRecord(time.Now(), slog.LevelError, "payment failed", 0)
	record.AddAttrs(
		slog.String("trace_id", "abc-123"),
		slog.String("user_id", "user-1"),
		slog.String("action", "checkout"),
		slog.String("error", "card declined"),
		slog.String("session_id", "cs_test"),
	)
	require.NoError(t, h.Handle(context.Background(), record))
	h.flush()

	var entry models.SystemLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "payment failed", entry.Message)
	assert.Equal(t, "abc-123", entry.TraceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "user-1", *entry.UserID)
	assert.Equal(t, "checkout", entry.Action)
	assert.Equal(t, "card declined", entry.Error)
	// Unknown attrs land in the extra blob.
	assert.Contains(t, string(entry.Extra), "cs_test")
}

func TestPGHandler_FlushEmptiesBuffer(t *testing.T) {
	db := logDB(t)
	h := NewPGHandler(db)
	defer h.Stop()

	for i := 0; i < 3; i++ {
		record := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
		require.NoError(t, h.Handle(context.Background(), record))
	}
	h.flush()
	h.flush() // second flush is a no-op

	var n int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

func TestMultiHandler_FansOut(t *testing.T) {
	db := logDB(t)
	pg := NewPGHandler(db)
	defer pg.Stop()

	multi := NewMultiHandler(pg)
	log := slog.New(multi)

	log.Info("ignored by the db handler")
	log.Error("kept", "action", "test")
	pg.flush()

	var n int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
