package svc

import (
	"context"

	"github.com/pkg/errors"

	"seeshare/cfg"
	"seeshare/metrics"
	"seeshare/pkg/domain"
	"seeshare/svc/api"
	"seeshare/svc/cache"
)

// Defaults resolves the target domain for each resource kind: an
// explicit configuration value wins, else the first entry of the
// corresponding remote domain list. Remote lists are cached so a burst
// of quick-shares costs one metadata fetch.
type Defaults struct {
	api     *api.Client
	cfg     *cfg.Cfg
	domains *cache.LRU[[]string]
	tags    *cache.LRU[[]api.Tag]
}

func NewDefaults(client *api.Client, c *cfg.Cfg) (*Defaults, error) {
	domains, err := cache.NewLRU[[]string](c.CacheSize, c.CacheTTL)
	if err != nil {
		return nil, errors.Wrap(err, "domain cache")
	}
	tags, err := cache.NewLRU[[]api.Tag](c.CacheSize, c.CacheTTL)
	if err != nil {
		return nil, errors.Wrap(err, "tag cache")
	}
	return &Defaults{api: client, cfg: c, domains: domains, tags: tags}, nil
}

// Domains lists the usable domains for one resource kind, cached.
func (d *Defaults) Domains(ctx context.Context, kind domain.ShareKind) ([]string, error) {
	key := "domains:" + string(kind)
	if cached, ok := d.domains.Get(key); ok {
		metrics.CacheHits.Inc()
		return cached, nil
	}
	metrics.CacheMisses.Inc()
	var (
		list []string
		err  error
	)
	switch kind {
	case domain.KindURL:
		list, err = d.api.URLDomains(ctx)
	case domain.KindText:
		list, err = d.api.TextDomains(ctx)
	case domain.KindFile:
		list, err = d.api.FileDomains(ctx)
	default:
		return nil, errors.Errorf("unknown share kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	d.domains.Set(key, list)
	return list, nil
}

// DomainFor returns the default domain for a kind, possibly empty when
// the account has none and no override is configured.
func (d *Defaults) DomainFor(ctx context.Context, kind domain.ShareKind) (string, error) {
	var override string
	switch kind {
	case domain.KindURL:
		override = d.cfg.DefaultURLDomain
	case domain.KindText:
		override = d.cfg.DefaultTextDomain
	case domain.KindFile:
		override = d.cfg.DefaultFileDomain
	}
	if override != "" {
		return override, nil
	}
	list, err := d.Domains(ctx, kind)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", nil
	}
	return list[0], nil
}

func (d *Defaults) Tags(ctx context.Context) ([]api.Tag, error) {
	if cached, ok := d.tags.Get("tags"); ok {
		metrics.CacheHits.Inc()
		return cached, nil
	}
	metrics.CacheMisses.Inc()
	list, err := d.api.Tags(ctx)
	if err != nil {
		return nil, err
	}
	d.tags.Set("tags", list)
	return list, nil
}
