package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	level   slog.Level
	records []slog.Record
	attrs   []slog.Attr
	group   string
	err     error
}

func (h *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return h.err
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &cp
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	cp := *h
	cp.group = name
	return &cp
}

func TestMultiHandler_DispatchesByLevel(t *testing.T) {
	debug := &recordingHandler{level: slog.LevelDebug}
	warn := &recordingHandler{level: slog.LevelWarn}
	log := slog.New(NewMultiHandler(debug, warn))

	log.Debug("one")
	log.Warn("two")

	assert.Len(t, debug.records, 2)
	require.Len(t, warn.records, 1)
	assert.Equal(t, "two", warn.records[0].Message)
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(&recordingHandler{level: slog.LevelWarn}, &recordingHandler{level: slog.LevelError})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	first := &recordingHandler{err: errors.New("first")}
	second := &recordingHandler{}
	h := NewMultiHandler(first, second)

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "msg", 0))

	assert.ErrorContains(t, err, "first")
	assert.Len(t, second.records, 1, "later handlers still run")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	h := NewMultiHandler(&recordingHandler{})

	withAttrs := h.WithAttrs([]slog.Attr{slog.String("session.id", "s1")}).(*MultiHandler)
	withGroup := h.WithGroup("http").(*MultiHandler)

	assert.Equal(t, "s1", withAttrs.handlers[0].(*recordingHandler).attrs[0].Value.String())
	assert.Equal(t, "http", withGroup.handlers[0].(*recordingHandler).group)
	assert.Empty(t, h.handlers[0].(*recordingHandler).attrs)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_WritesToConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("Session created", "session.id", "s1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg="Session created" session.id=s1`)
}

func TestInit_RejectsBadLevel(t *testing.T) {
	assert.Error(t, Init("loud"))
}
