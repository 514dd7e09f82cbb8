// Package progress loads and saves score and streak through a key-value store.
package progress

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/tuicaptcha/internal/model"
)

// Storage keys.
const (
	KeyScore  = "coins"
	KeyStreak = "streak"
)

// Adapter hydrates and persists session progress.
type Adapter interface {
	Load() model.Progress
	Save(score, streak int)
}

// KV is a durable string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Option configures a KVAdapter.
type Option func(*KVAdapter)

// WithLogger sets the logger used for swallowed store errors.
func WithLogger(logger *zap.Logger) Option {
	return func(a *KVAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPersistResets makes Save write zero values as well.
func WithPersistResets(enabled bool) Option {
	return func(a *KVAdapter) {
		a.persistResets = enabled
	}
}

// KVAdapter stores progress under KeyScore and KeyStreak. Store failures
// never surface: reads come back absent and writes are dropped.
type KVAdapter struct {
	kv            KV
	logger        *zap.Logger
	persistResets bool
}

// NewKVAdapter returns an adapter over kv. A nil kv yields an adapter that
// keeps nothing.
func NewKVAdapter(kv KV, opts ...Option) *KVAdapter {
	a := &KVAdapter{kv: kv, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads both keys. Missing or malformed values are reported absent.
func (a *KVAdapter) Load() model.Progress {
	var p model.Progress
	p.Score, p.HasScore = a.readInt(KeyScore)
	p.Streak, p.HasStreak = a.readInt(KeyStreak)
	return p
}

// Save writes each non-zero value. A zero is skipped unless resets are
// persisted, so an earlier non-zero value stays in the store.
func (a *KVAdapter) Save(score, streak int) {
	if score != 0 || a.persistResets {
		a.writeInt(KeyScore, score)
	}
	if streak != 0 || a.persistResets {
		a.writeInt(KeyStreak, streak)
	}
}

func (a *KVAdapter) readInt(key string) (int, bool) {
	if a.kv == nil {
		return 0, false
	}
	raw, ok, err := a.kv.Get(context.Background(), key)
	if err != nil {
		a.logger.Warn("progress read failed", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		a.logger.Warn("ignoring malformed progress value", zap.String("key", key), zap.String("value", raw))
		return 0, false
	}
	if n < 0 {
		a.logger.Warn("ignoring negative progress value", zap.String("key", key), zap.Int("value", n))
		return 0, false
	}
	return n, true
}

func (a *KVAdapter) writeInt(key string, value int) {
	if a.kv == nil {
		return
	}
	if err := a.kv.Set(context.Background(), key, strconv.Itoa(value)); err != nil {
		a.logger.Warn("progress write dropped", zap.String("key", key), zap.Int("value", value), zap.Error(err))
		return
	}
	a.logger.Debug("progress saved", zap.String("key", key), zap.Int("value", value))
}
