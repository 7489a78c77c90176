package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/blogfront/internal/model"
	"github.com/and161185/blogfront/internal/storage"
)

// Follow reloads the session whenever w reports a change made by another process
// and passes the new state to onChange. It blocks until ctx is done.
func (s *Store) Follow(ctx context.Context, w storage.Watcher, onChange func(model.Identity, bool)) error {
	return w.Watch(ctx, func() {
		if err := s.Reload(ctx); err != nil {
			s.log.Warn("session reload", zap.Error(err))
			return
		}
		id, ok := s.Current()
		onChange(id, ok)
	})
}
