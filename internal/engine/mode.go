package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/fpsync/internal/pipeline"
	"github.com/roach88/fpsync/internal/store"
)

// SettingStore persists settings. Implemented by *store.Store.
type SettingStore interface {
	PutSetting(ctx context.Context, key, value string) error
}

// ModeSetting is the current sync mode, shared between the controller, the
// running pipeline and the outside world.
//
// Thread-safety: all methods are safe for concurrent use. Mode is
// lock-free so pipelines can poll it before every remote call.
type ModeSetting struct {
	current atomic.Value // pipeline.Mode
	persist SettingStore

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(pipeline.Mode)
}

// NewModeSetting creates a setting holding initial. persist may be nil.
func NewModeSetting(initial pipeline.Mode, persist SettingStore) *ModeSetting {
	s := &ModeSetting{
		persist:   persist,
		listeners: make(map[int]func(pipeline.Mode)),
	}
	s.current.Store(initial)
	return s
}

// Mode implements pipeline.ModeReader.
func (s *ModeSetting) Mode() pipeline.Mode {
	return s.current.Load().(pipeline.Mode)
}

// Set changes the mode and notifies listeners. Setting the current value
// again is a no-op. The new value is in effect even when persisting fails;
// the returned error is then a MODE_PERSIST RuntimeError.
func (s *ModeSetting) Set(ctx context.Context, m pipeline.Mode) error {
	if !s.swap(m) {
		return nil
	}
	var err error
	if s.persist != nil {
		if perr := s.persist.PutSetting(ctx, store.KeySyncMode, string(m)); perr != nil {
			err = NewModePersistError(string(m), perr)
		}
	}
	s.notify(m)
	return err
}

// Adopt applies a mode read back from the settings store. It is Set
// without the write, so a value another process persisted is not written
// again.
func (s *ModeSetting) Adopt(m pipeline.Mode) {
	if s.swap(m) {
		s.notify(m)
	}
}

func (s *ModeSetting) swap(m pipeline.Mode) bool {
	if old := s.current.Swap(m).(pipeline.Mode); old == m {
		return false
	}
	slog.Info("sync mode changed", "mode", string(m))
	return true
}

func (s *ModeSetting) notify(m pipeline.Mode) {
	s.mu.Lock()
	fns := make([]func(pipeline.Mode), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(m)
	}
}

// OnChange registers fn to run after every mode change, in registration
// order. The returned function removes it.
func (s *ModeSetting) OnChange(fn func(pipeline.Mode)) (remove func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
