package db

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"seeshare/pkg/domain"
)

// historyKey is the fixed key the whole history blob lives under.
const historyKey = "history"

// Store is the local share ledger. Every call re-reads persisted state
// rather than caching in memory, and every mutation rewrites the whole
// blob; items are only ever inserted or removed, never updated.
type Store interface {
	List(ctx context.Context) ([]domain.HistoryItem, error)
	Add(ctx context.Context, item domain.HistoryItem) error
	// Remove drops entries matching shareURL. A non-empty createdAt
	// narrows the match to that exact (url, createdAt) pair. Removing
	// a non-existent entry is a no-op.
	Remove(ctx context.Context, shareURL, createdAt string) error
	Close() error
}

func encodeHistory(items []domain.HistoryItem) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "encode history")
	}
	return raw, nil
}

func decodeHistory(raw []byte) ([]domain.HistoryItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []domain.HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrap(err, "decode history")
	}
	return items, nil
}

func filterHistory(items []domain.HistoryItem, shareURL, createdAt string) []domain.HistoryItem {
	kept := items[:0:0]
	for _, it := range items {
		if it.ShareURL == shareURL && (createdAt == "" || it.CreatedAt == createdAt) {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}
