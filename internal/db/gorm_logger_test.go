package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferedLogger(debug bool) (*bytes.Buffer, logger.Interface) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return &buf, newGormSlogLogger(base, debug)
}

func sqlFn() (string, int64) {
	return "SELECT 1", 1
}

func TestGormSlogLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("record not found is ignored", func(t *testing.T) {
		buf, l := newBufferedLogger(false)
		l.Trace(ctx, time.Now(), sqlFn, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("errors are logged", func(t *testing.T) {
		buf, l := newBufferedLogger(false)
		l.Trace(ctx, time.Now(), sqlFn, errors.New("boom"))
		assert.Contains(t, buf.String(), "gorm query failed")
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("slow queries warn", func(t *testing.T) {
		buf, l := newBufferedLogger(false)
		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
		assert.Contains(t, buf.String(), "gorm slow query")
		assert.Contains(t, buf.String(), `"level":"WARN"`)
	})

	t.Run("fast queries only in debug", func(t *testing.T) {
		buf, l := newBufferedLogger(false)
		l.Trace(ctx, time.Now(), sqlFn, nil)
		assert.Empty(t, buf.String())

		buf, l = newBufferedLogger(true)
		l.Trace(ctx, time.Now(), sqlFn, nil)
		assert.Contains(t, buf.String(), "SELECT 1")
	})

	t.Run("silent mode", func(t *testing.T) {
		buf, l := newBufferedLogger(true)
		l.LogMode(logger.Silent).Trace(ctx, time.Now(), sqlFn, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
