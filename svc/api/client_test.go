package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seeshare/cfg"
	"seeshare/pkg/domain"
	"seeshare/svc/mockapi"
)

const testKey = "test-api-key"

func newTestClient(t *testing.T) (*Client, *mockapi.Server) {
	t.Helper()
	mock := mockapi.New(testKey, []string{"s.ee", "fast.io"})
	srv := httptest.NewServer(mock.Router())
	t.Cleanup(srv.Close)
	c := &cfg.Cfg{
		APIKey:         cfg.NewSecret(testKey),
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
		RequestRate:    100,
		RequestBurst:   100,
	}
	return NewClient(c), mock
}

func TestCreateShortURL(t *testing.T) {
	client, _ := newTestClient(t)
	res, err := client.CreateShortURL(context.Background(), CreateShortURLReq{
		TargetURL: "https://example.com/page",
		Domain:    "s.ee",
	})
	if err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}
	if res.Slug == "" {
		t.Error("expected a slug")
	}
	if res.ShortURL != "https://s.ee/"+res.Slug {
		t.Errorf("unexpected short url: %s", res.ShortURL)
	}
}

func TestCreateShortURLUnknownDomain(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.CreateShortURL(context.Background(), CreateShortURLReq{
		TargetURL: "https://example.com",
		Domain:    "nope.example",
	})
	if err == nil {
		t.Fatal("expected error for unknown domain")
	}
	if !domain.IsTransport(err) {
		t.Errorf("expected transport class, got %v", err)
	}
}

func TestServerMessageSurfaces(t *testing.T) {
	mock := mockapi.New(testKey, nil)
	srv := httptest.NewServer(mock.Router())
	defer srv.Close()
	c := &cfg.Cfg{
		APIKey:         cfg.NewSecret("wrong-key"),
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
		RequestRate:    100,
		RequestBurst:   100,
	}
	client := NewClient(c)
	_, err := client.URLDomains(context.Background())
	if err == nil {
		t.Fatal("expected auth failure")
	}
	if err.Error() != "invalid API key" {
		t.Errorf("server message not surfaced: %q", err.Error())
	}
}

func TestStatusFallbackWhenNoMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := &cfg.Cfg{
		APIKey:         cfg.NewSecret(testKey),
		BaseURL:        srv.URL,
		RequestTimeout: 10 * time.Second,
		RequestRate:    100,
		RequestBurst:   100,
	}
	client := NewClient(c)
	_, err := client.URLDomains(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "API error: 502" {
		t.Errorf("expected status-derived message, got %q", err.Error())
	}
}

func TestUploadFileNormalizesResponse(t *testing.T) {
	client, _ := newTestClient(t)
	up, err := client.UploadFile(context.Background(), UploadReq{
		FileName: "cat.png",
		Content:  []byte("not really a png"),
		Domain:   "fast.io",
	})
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if up.StoreName == "" || up.Hash == "" {
		t.Errorf("incomplete upload result: %+v", up)
	}
	if up.PageURL != "https://fast.io/p/"+up.StoreName {
		t.Errorf("unexpected page url: %s", up.PageURL)
	}
	if up.DirectURL == "" {
		t.Error("expected a direct url")
	}
}

func TestDeleteFile(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	up, err := client.UploadFile(ctx, UploadReq{FileName: "a.txt", Content: []byte("x")})
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if err := client.DeleteFile(ctx, up.Hash); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if err := client.DeleteFile(ctx, up.Hash); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestTagsNestedDecode(t *testing.T) {
	client, _ := newTestClient(t)
	tags, err := client.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "work" {
		t.Errorf("unexpected tags: %+v", tags)
	}
}

func TestVisitStat(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	res, err := client.CreateShortURL(ctx, CreateShortURLReq{TargetURL: "https://example.com", Domain: "s.ee"})
	if err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}
	count, err := client.VisitStat(ctx, "s.ee", res.Slug, "")
	if err != nil {
		t.Fatalf("VisitStat failed: %v", err)
	}
	if count != 42 {
		t.Errorf("expected deterministic count, got %d", count)
	}
}

func TestUpdateShortURL(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	res, err := client.CreateShortURL(ctx, CreateShortURLReq{TargetURL: "https://example.com/a", Domain: "s.ee"})
	if err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}
	err = client.UpdateShortURL(ctx, UpdateShortURLReq{
		Domain:    "s.ee",
		Slug:      res.Slug,
		TargetURL: "https://example.com/b",
		Title:     "retargeted",
	})
	if err != nil {
		t.Fatalf("UpdateShortURL failed: %v", err)
	}
	err = client.UpdateShortURL(ctx, UpdateShortURLReq{Domain: "s.ee", Slug: "absent"})
	if err == nil {
		t.Error("updating a missing slug should fail")
	}
}

func TestUpdateText(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	res, err := client.CreateText(ctx, CreateTextReq{Content: "v1", Title: "draft"})
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}
	err = client.UpdateText(ctx, UpdateTextReq{
		Domain:  "s.ee",
		Slug:    res.Slug,
		Content: "v2",
		Title:   "final",
	})
	if err != nil {
		t.Fatalf("UpdateText failed: %v", err)
	}
}

func TestCreateAndDeleteText(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	res, err := client.CreateText(ctx, CreateTextReq{Content: "hello", Title: "greeting"})
	if err != nil {
		t.Fatalf("CreateText failed: %v", err)
	}
	if err := client.DeleteText(ctx, "s.ee", res.Slug); err != nil {
		t.Fatalf("DeleteText failed: %v", err)
	}
}

func TestTextDomainsAndFileDomains(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	for _, fn := range []func(context.Context) ([]string, error){client.TextDomains, client.FileDomains, client.URLDomains} {
		got, err := fn(ctx)
		if err != nil {
			t.Fatalf("domain listing failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 domains, got %v", got)
		}
	}
}

func TestFileHistoryAndPrivateURL(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	if _, err := client.UploadFile(ctx, UploadReq{FileName: "p.txt", Content: []byte("y"), Private: true}); err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	records, err := client.FileHistory(ctx, 1)
	if err != nil {
		t.Fatalf("FileHistory failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	url, err := client.PrivateDownloadURL(ctx, records[0].FileID)
	if err != nil {
		t.Fatalf("PrivateDownloadURL failed: %v", err)
	}
	if url == "" {
		t.Error("expected a signed url")
	}
}
