package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/voyagerhq/voyager/internal/config"
)

// Store persists the conversation list as a single snapshot: read once at
// startup, rewritten in full on every conversation-list mutation. The loaded
// list preserves order and message sequences exactly.
type Store interface {
	Load(ctx context.Context) ([]*Conversation, error)
	Save(ctx context.Context, conversations []*Conversation) error
	Close() error
}

// NewStore creates a Store based on the configuration. Disabled persistence
// returns a no-op store.
func NewStore(cfg config.SessionsConfig) (Store, error) {
	if !cfg.Enabled {
		return &NoopStore{}, nil
	}

	dataDir, err := config.GetDataDir()
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case "", "file":
		return NewFileStore(filepath.Join(dataDir, "chats.json")), nil
	case "sqlite":
		return NewSQLiteStore(filepath.Join(dataDir, "chats.db"))
	default:
		return nil, fmt.Errorf("unknown session backend: %s (valid: file, sqlite)", cfg.Backend)
	}
}
