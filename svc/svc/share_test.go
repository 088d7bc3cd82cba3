package svc

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"seeshare/cfg"
	"seeshare/pkg/domain"
	"seeshare/svc/api"
	"seeshare/svc/mockapi"
)

const testKey = "test-api-key"

type stubSource struct {
	selected      string
	clipboardFile string
	clipboardText string
}

func (s stubSource) SelectedFile() (string, bool)  { return s.selected, s.selected != "" }
func (s stubSource) ClipboardFile() (string, bool) { return s.clipboardFile, s.clipboardFile != "" }
func (s stubSource) ClipboardText() (string, bool) { return s.clipboardText, s.clipboardText != "" }

type stubPrompter struct {
	title string
	err   error
}

func (p stubPrompter) Title(context.Context, string) (string, error) { return p.title, p.err }

type stubClipboard struct {
	copied []string
}

func (c *stubClipboard) Copy(text string) error {
	c.copied = append(c.copied, text)
	return nil
}

type memStore struct {
	items   []domain.HistoryItem
	addErr  error
	listErr error
}

func (m *memStore) List(context.Context) ([]domain.HistoryItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *memStore) Add(_ context.Context, item domain.HistoryItem) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.items = append([]domain.HistoryItem{item}, m.items...)
	return nil
}

func (m *memStore) Remove(_ context.Context, shareURL, createdAt string) error {
	kept := m.items[:0]
	for _, it := range m.items {
		if it.ShareURL == shareURL && (createdAt == "" || it.CreatedAt == createdAt) {
			continue
		}
		kept = append(kept, it)
	}
	m.items = kept
	return nil
}

func (m *memStore) Close() error { return nil }

type fixture struct {
	share *Share
	mock  *mockapi.Server
	clip  *stubClipboard
	store *memStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mock := mockapi.New(testKey, []string{"s.ee"})
	srv := httptest.NewServer(mock.Router())
	t.Cleanup(srv.Close)
	c := &cfg.Cfg{
		APIKey:         cfg.NewSecret(testKey),
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
		RequestRate:    100,
		RequestBurst:   100,
		CacheSize:      16,
		CacheTTL:       time.Minute,
	}
	client := api.NewClient(c)
	defs, err := NewDefaults(client, c)
	if err != nil {
		t.Fatalf("NewDefaults failed: %v", err)
	}
	clip := &stubClipboard{}
	store := &memStore{}
	share := NewShare(client, store, defs, clip)
	share.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return &fixture{share: share, mock: mock, clip: clip, store: store}
}

func TestQuickShareClipboardURL(t *testing.T) {
	fx := newFixture(t)
	res, err := fx.share.QuickShare(context.Background(),
		stubSource{clipboardText: " https://example.com/article "},
		stubPrompter{})
	if err != nil {
		t.Fatalf("QuickShare failed: %v", err)
	}
	if res.Kind != domain.KindURL {
		t.Errorf("expected url kind, got %s", res.Kind)
	}
	if len(fx.clip.copied) != 1 || fx.clip.copied[0] != res.ShareURL {
		t.Errorf("share url not copied: %v", fx.clip.copied)
	}
	if len(fx.store.items) != 1 {
		t.Fatalf("expected 1 history item, got %d", len(fx.store.items))
	}
	item := fx.store.items[0]
	if item.Kind != domain.KindURL || item.Domain != "s.ee" || item.Slug == "" {
		t.Errorf("unexpected history item: %+v", item)
	}
	if item.CreatedAt != "2026-03-14T09:00:00Z" {
		t.Errorf("unexpected timestamp: %s", item.CreatedAt)
	}
}

func TestQuickShareTextUsesPrompter(t *testing.T) {
	fx := newFixture(t)
	res, err := fx.share.QuickShare(context.Background(),
		stubSource{clipboardText: "some notes to share"},
		stubPrompter{title: "meeting notes"})
	if err != nil {
		t.Fatalf("QuickShare failed: %v", err)
	}
	if res.Kind != domain.KindText || res.Title != "meeting notes" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestQuickShareNothingAvailable(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.share.QuickShare(context.Background(), stubSource{}, stubPrompter{})
	if errors.Cause(err) != domain.ErrNothingToShare {
		t.Errorf("expected ErrNothingToShare, got %v", err)
	}
	if n := fx.mock.RequestCount(""); n != 0 {
		t.Errorf("expected no network calls, saw %d", n)
	}
}

func TestShareTextEmptyTitleNoNetworkCall(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.share.ShareText(context.Background(), "content", "   ", TextOptions{})
	if errors.Cause(err) != domain.ErrTitleRequired {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if !domain.IsValidation(err) {
		t.Errorf("expected validation class, got %v", err)
	}
	if n := fx.mock.RequestCount(""); n != 0 {
		t.Errorf("title validation must abort before any request, saw %d", n)
	}
}

func TestShareFileRecordsUploadMetadata(t *testing.T) {
	fx := newFixture(t)
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := fx.share.ShareFile(context.Background(), path, FileOptions{})
	if err != nil {
		t.Fatalf("ShareFile failed: %v", err)
	}
	if res.Kind != domain.KindFile || res.Title != "report.pdf" {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fx.store.items) != 1 {
		t.Fatalf("expected 1 history item, got %d", len(fx.store.items))
	}
	item := fx.store.items[0]
	if item.Hash == "" || item.FileURL == "" {
		t.Errorf("file metadata missing from history: %+v", item)
	}
	if item.ShareURL != res.ShareURL {
		t.Errorf("history url %q != result url %q", item.ShareURL, res.ShareURL)
	}
}

func TestShareFileUnreadable(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.share.ShareFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), FileOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsValidation(err) {
		t.Errorf("expected validation class, got %v", err)
	}
	if n := fx.mock.RequestCount(""); n != 0 {
		t.Errorf("unreadable file must not reach the network, saw %d", n)
	}
}

func TestHistoryFailureDoesNotFailShare(t *testing.T) {
	fx := newFixture(t)
	fx.store.addErr = errors.New("disk full")
	res, err := fx.share.ShareURL(context.Background(), "https://example.com", URLOptions{})
	if err != nil {
		t.Fatalf("share must succeed despite history failure: %v", err)
	}
	if res.HistoryErr == nil {
		t.Fatal("expected HistoryErr to carry the persistence failure")
	}
	if !domain.IsPersistence(res.HistoryErr) {
		t.Errorf("expected persistence class, got %v", res.HistoryErr)
	}
	if res.ShareURL == "" {
		t.Error("expected a share url")
	}
}

func TestDeleteRemovesRemoteAndLocal(t *testing.T) {
	fx := newFixture(t)
	res, err := fx.share.ShareURL(context.Background(), "https://example.com", URLOptions{})
	if err != nil {
		t.Fatalf("ShareURL failed: %v", err)
	}
	item := fx.store.items[0]
	if err := fx.share.Delete(context.Background(), item); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(fx.store.items) != 0 {
		t.Errorf("local entry not removed: %+v", fx.store.items)
	}
	// The remote resource is gone too: stats on it now 404.
	if _, err := fx.share.Stats(context.Background(), item.Domain, item.Slug, ""); err == nil {
		t.Errorf("remote resource still present after delete: %s", res.ShareURL)
	}
}

func TestDeleteFileWithoutHashSkipsRemote(t *testing.T) {
	fx := newFixture(t)
	item := domain.HistoryItem{
		Kind:      domain.KindFile,
		ShareURL:  "https://s.ee/p/legacy.png",
		CreatedAt: "2025-01-01T00:00:00Z",
	}
	fx.store.items = []domain.HistoryItem{item}
	if err := fx.share.Delete(context.Background(), item); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n := fx.mock.RequestCount(""); n != 0 {
		t.Errorf("hashless delete must not touch the network, saw %d requests", n)
	}
	if len(fx.store.items) != 0 {
		t.Error("local entry not removed")
	}
}

func TestShortURLForm(t *testing.T) {
	fx := newFixture(t)
	form, err := fx.share.ShortURLForm(context.Background())
	if err != nil {
		t.Fatalf("ShortURLForm failed: %v", err)
	}
	if len(form.Domains) == 0 {
		t.Error("expected domains")
	}
	if len(form.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", form.Tags)
	}
}

func TestDomainsAreCached(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := fx.share.ShareURL(ctx, "https://example.com", URLOptions{}); err != nil {
			t.Fatalf("ShareURL failed: %v", err)
		}
	}
	if n := fx.mock.RequestCount("/domains"); n != 1 {
		t.Errorf("expected a single domain lookup, saw %d", n)
	}
}
