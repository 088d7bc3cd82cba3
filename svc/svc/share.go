package svc

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"seeshare/metrics"
	"seeshare/pkg/domain"
	"seeshare/svc/api"
	"seeshare/svc/classify"
	"seeshare/svc/db"
	"seeshare/svc/util"
)

// Source provides candidate content from the host environment. Probes
// report availability only; a source that cannot be read counts as
// absent.
type Source interface {
	SelectedFile() (string, bool)
	ClipboardFile() (string, bool)
	ClipboardText() (string, bool)
}

// TitlePrompter collects the mandatory title for a text share. It is
// the one interactive step of the pipeline and belongs to the host UI.
type TitlePrompter interface {
	Title(ctx context.Context, preview string) (string, error)
}

// Clipboard receives the final shareable URL.
type Clipboard interface {
	Copy(text string) error
}

type stage string

const (
	stageAcquire  stage = "acquiring_input"
	stageClassify stage = "classified"
	stageDispatch stage = "dispatching"
	stageResolve  stage = "resolving_url"
	stageRecord   stage = "recording_history"
)

const previewLimit = 200

// Share composes the classifier, remote client, resolver and history
// store into single-action share pipelines. One invocation is one
// logical thread of control; the only shared mutable resource is the
// history store.
type Share struct {
	api  *api.Client
	hist db.Store
	defs *Defaults
	clip Clipboard
	log  zerolog.Logger
	now  func() time.Time
}

func NewShare(client *api.Client, hist db.Store, defs *Defaults, clip Clipboard) *Share {
	if client == nil || hist == nil || defs == nil || clip == nil {
		panic("share service: nil dependency")
	}
	return &Share{
		api:  client,
		hist: hist,
		defs: defs,
		clip: clip,
		log:  util.GetLogger().With().Str("component", "share").Logger(),
		now:  time.Now,
	}
}

type URLOptions struct {
	Domain     string
	CustomSlug string
	Title      string
	Password   string
	ExpireAt   int64
	TagIDs     []int
}

type TextOptions struct {
	Domain     string
	CustomSlug string
	Password   string
	ExpireAt   int64
	TextType   api.TextType
}

type FileOptions struct {
	Domain     string
	CustomSlug string
	Private    bool
}

// QuickShare runs the whole pipeline: acquire content from the first
// available source, classify it, dispatch the matching remote
// operation, resolve the final URL and record history. Terminal on
// first success or first failure; no retries.
func (s *Share) QuickShare(ctx context.Context, src Source, prompt TitlePrompter) (*domain.ShareResult, error) {
	if path, ok := src.SelectedFile(); ok {
		s.log.Debug().Str("stage", string(stageClassify)).Str("source", "selection").Msg("file reference acquired")
		return s.ShareFile(ctx, classify.ResolvePath(path), FileOptions{})
	}
	if path, ok := src.ClipboardFile(); ok {
		s.log.Debug().Str("stage", string(stageClassify)).Str("source", "clipboard").Msg("file reference acquired")
		return s.ShareFile(ctx, classify.ResolvePath(path), FileOptions{})
	}
	if text, ok := src.ClipboardText(); ok && strings.TrimSpace(text) != "" {
		cc := classify.Classify(text)
		s.log.Debug().Str("stage", string(stageClassify)).Str("kind", string(cc.Kind)).Msg("clipboard text classified")
		switch cc.Kind {
		case domain.KindURL:
			return s.ShareURL(ctx, cc.RawValue, URLOptions{})
		case domain.KindFile:
			return s.ShareFile(ctx, cc.ResolvedPath, FileOptions{})
		default:
			return s.shareTextInteractive(ctx, cc.RawValue, prompt)
		}
	}
	metrics.ShareFailures.WithLabelValues(string(stageAcquire)).Inc()
	return nil, domain.ErrNothingToShare
}

func (s *Share) shareTextInteractive(ctx context.Context, content string, prompt TitlePrompter) (*domain.ShareResult, error) {
	title, err := prompt.Title(ctx, preview(content))
	if err != nil {
		metrics.ShareFailures.WithLabelValues(string(stageDispatch)).Inc()
		return nil, errors.Wrap(err, "collect title")
	}
	return s.ShareText(ctx, content, title, TextOptions{})
}

// ShareURL shortens a link on the default (or given) domain, copies
// the result and records it.
func (s *Share) ShareURL(ctx context.Context, target string, opt URLOptions) (*domain.ShareResult, error) {
	dom := opt.Domain
	if dom == "" {
		var err error
		dom, err = s.defs.DomainFor(ctx, domain.KindURL)
		if err != nil {
			return s.fail(stageDispatch, err)
		}
	}
	if dom == "" {
		return s.fail(stageDispatch, domain.ErrNoDomain)
	}
	res, err := s.api.CreateShortURL(ctx, api.CreateShortURLReq{
		TargetURL:  target,
		Domain:     dom,
		CustomSlug: opt.CustomSlug,
		Title:      opt.Title,
		Password:   opt.Password,
		ExpireAt:   opt.ExpireAt,
		TagIDs:     opt.TagIDs,
	})
	if err != nil {
		return s.fail(stageDispatch, err)
	}
	if err := s.clip.Copy(res.ShortURL); err != nil {
		return s.fail(stageDispatch, errors.Wrap(err, "copy to clipboard"))
	}
	title := opt.Title
	if title == "" {
		title = target
	}
	result := &domain.ShareResult{Kind: domain.KindURL, Title: title, ShareURL: res.ShortURL}
	result.HistoryErr = s.record(ctx, domain.HistoryItem{
		Kind:      domain.KindURL,
		Title:     title,
		ShareURL:  res.ShortURL,
		Domain:    dom,
		Slug:      res.Slug,
		CreatedAt: s.stamp(),
	})
	metrics.SharesCompleted.WithLabelValues(string(domain.KindURL)).Inc()
	return result, nil
}

// ShareText creates a hosted text paste. Text sharing cannot complete
// without a non-empty title; an empty one aborts before any network
// call.
func (s *Share) ShareText(ctx context.Context, content, title string, opt TextOptions) (*domain.ShareResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		metrics.ShareFailures.WithLabelValues(string(stageDispatch)).Inc()
		return nil, domain.ErrTitleRequired
	}
	dom := opt.Domain
	if dom == "" {
		var err error
		dom, err = s.defs.DomainFor(ctx, domain.KindText)
		if err != nil {
			return s.fail(stageDispatch, err)
		}
	}
	res, err := s.api.CreateText(ctx, api.CreateTextReq{
		Content:    content,
		Title:      title,
		Domain:     dom,
		CustomSlug: opt.CustomSlug,
		Password:   opt.Password,
		ExpireAt:   opt.ExpireAt,
		TextType:   opt.TextType,
	})
	if err != nil {
		return s.fail(stageDispatch, err)
	}
	if err := s.clip.Copy(res.ShortURL); err != nil {
		return s.fail(stageDispatch, errors.Wrap(err, "copy to clipboard"))
	}
	if dom == "" {
		dom = hostOf(res.ShortURL)
	}
	result := &domain.ShareResult{Kind: domain.KindText, Title: title, ShareURL: res.ShortURL}
	result.HistoryErr = s.record(ctx, domain.HistoryItem{
		Kind:      domain.KindText,
		Title:     title,
		ShareURL:  res.ShortURL,
		Domain:    dom,
		Slug:      res.Slug,
		CreatedAt: s.stamp(),
	})
	metrics.SharesCompleted.WithLabelValues(string(domain.KindText)).Inc()
	return result, nil
}

// ShareFile uploads a local file and resolves its canonical public
// URL. The domain used for the upload is the same one handed to the
// resolver, so an explicit choice is honored exactly.
func (s *Share) ShareFile(ctx context.Context, path string, opt FileOptions) (*domain.ShareResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		metrics.ShareFailures.WithLabelValues(string(stageDispatch)).Inc()
		return nil, domain.ValidationErr("FILE_UNREADABLE", err)
	}
	dom := opt.Domain
	if dom == "" {
		dom, err = s.defs.DomainFor(ctx, domain.KindFile)
		if err != nil {
			return s.fail(stageDispatch, err)
		}
	}
	name := filepath.Base(path)
	up, err := s.api.UploadFile(ctx, api.UploadReq{
		FileName:   name,
		Content:    content,
		Domain:     dom,
		CustomSlug: opt.CustomSlug,
		Private:    opt.Private,
	})
	if err != nil {
		return s.fail(stageDispatch, err)
	}
	shareURL, err := domain.ResolveFileURL(*up, dom)
	if err != nil {
		return s.fail(stageResolve, err)
	}
	if err := s.clip.Copy(shareURL); err != nil {
		return s.fail(stageResolve, errors.Wrap(err, "copy to clipboard"))
	}
	if dom == "" {
		dom = hostOf(shareURL)
	}
	result := &domain.ShareResult{Kind: domain.KindFile, Title: name, ShareURL: shareURL}
	result.HistoryErr = s.record(ctx, domain.HistoryItem{
		Kind:      domain.KindFile,
		Title:     name,
		ShareURL:  shareURL,
		Domain:    dom,
		Slug:      up.StoreName,
		Hash:      up.Hash,
		FileURL:   up.DirectURL,
		CreatedAt: s.stamp(),
	})
	metrics.SharesCompleted.WithLabelValues(string(domain.KindFile)).Inc()
	return result, nil
}

// record persists a history item. The remote share has already
// succeeded by the time this runs, so a failure here is downgraded to
// a warning carried on the result.
func (s *Share) record(ctx context.Context, item domain.HistoryItem) error {
	if err := s.hist.Add(ctx, item); err != nil {
		metrics.HistoryWriteFailures.Inc()
		s.log.Warn().Err(err).Str("stage", string(stageRecord)).Str("url", item.ShareURL).
			Msg("history recording failed, share already succeeded")
		return domain.PersistenceErr(err)
	}
	return nil
}

func (s *Share) fail(st stage, err error) (*domain.ShareResult, error) {
	metrics.ShareFailures.WithLabelValues(string(st)).Inc()
	return nil, err
}

// History lists the local ledger, newest first.
func (s *Share) History(ctx context.Context) ([]domain.HistoryItem, error) {
	items, err := s.hist.List(ctx)
	if err != nil {
		return nil, domain.PersistenceErr(err)
	}
	return items, nil
}

// RemoveLocal drops an entry from the ledger without touching the
// remote resource.
func (s *Share) RemoveLocal(ctx context.Context, shareURL, createdAt string) error {
	if err := s.hist.Remove(ctx, shareURL, createdAt); err != nil {
		return domain.PersistenceErr(err)
	}
	return nil
}

// Delete removes the resource from the sharing service, then from the
// local ledger. The local removal only runs once the remote delete
// succeeded.
func (s *Share) Delete(ctx context.Context, item domain.HistoryItem) error {
	switch item.Kind {
	case domain.KindURL:
		if err := s.api.DeleteShortURL(ctx, item.Domain, item.Slug); err != nil {
			return err
		}
	case domain.KindText:
		if err := s.api.DeleteText(ctx, item.Domain, item.Slug); err != nil {
			return err
		}
	case domain.KindFile:
		if item.Hash != "" {
			if err := s.api.DeleteFile(ctx, item.Hash); err != nil {
				return err
			}
		}
	}
	return s.RemoveLocal(ctx, item.ShareURL, item.CreatedAt)
}

// Domains lists the usable domains for a resource kind.
func (s *Share) Domains(ctx context.Context, kind domain.ShareKind) ([]string, error) {
	return s.defs.Domains(ctx, kind)
}

// Stats reports the visit count of a shortened link.
func (s *Share) Stats(ctx context.Context, dom, slug, period string) (int, error) {
	return s.api.VisitStat(ctx, dom, slug, period)
}

// FormData carries the prefetched choices for the full short-URL form.
type FormData struct {
	Domains []string
	Tags    []api.Tag
}

// ShortURLForm fetches domains and tags concurrently; the two lookups
// are read-only and share no state.
func (s *Share) ShortURLForm(ctx context.Context) (*FormData, error) {
	var form FormData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		domains, err := s.defs.Domains(gctx, domain.KindURL)
		if err != nil {
			return err
		}
		form.Domains = domains
		return nil
	})
	g.Go(func() error {
		tags, err := s.defs.Tags(gctx)
		if err != nil {
			return err
		}
		form.Tags = tags
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}

func (s *Share) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + "..."
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
