package api

import (
	"context"
	"net/http"
	"net/url"
)

type CreateShortURLReq struct {
	TargetURL  string `json:"target_url"`
	Domain     string `json:"domain"`
	CustomSlug string `json:"custom_slug,omitempty"`
	Password   string `json:"password,omitempty"`
	ExpireAt   int64  `json:"expire_at,omitempty"`
	Title      string `json:"title,omitempty"`
	TagIDs     []int  `json:"tag_ids,omitempty"`
}

type ShortURLData struct {
	ShortURL   string `json:"short_url"`
	Slug       string `json:"slug"`
	CustomSlug string `json:"custom_slug"`
}

func (c *Client) CreateShortURL(ctx context.Context, req CreateShortURLReq) (*ShortURLData, error) {
	env, err := c.do(ctx, http.MethodPost, "/shorten", req)
	if err != nil {
		return nil, err
	}
	var out ShortURLData
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateShortURLReq struct {
	Domain    string `json:"domain"`
	Slug      string `json:"slug"`
	TargetURL string `json:"target_url"`
	Title     string `json:"title"`
}

func (c *Client) UpdateShortURL(ctx context.Context, req UpdateShortURLReq) error {
	_, err := c.do(ctx, http.MethodPut, "/shorten", req)
	return err
}

func (c *Client) DeleteShortURL(ctx context.Context, domain, slug string) error {
	_, err := c.do(ctx, http.MethodDelete, "/shorten", map[string]string{
		"domain": domain,
		"slug":   slug,
	})
	return err
}

func (c *Client) URLDomains(ctx context.Context) ([]string, error) {
	var out domainsData
	if err := c.get(ctx, "/domains", &out); err != nil {
		return nil, err
	}
	return out.Domains, nil
}

// VisitStat returns the visit count for one short link. Period is
// daily, monthly or totally; empty means the server default.
func (c *Client) VisitStat(ctx context.Context, domain, slug, period string) (int, error) {
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("slug", slug)
	if period != "" {
		params.Set("period", period)
	}
	var out struct {
		VisitCount int `json:"visit_count"`
	}
	if err := c.get(ctx, "/link/visit-stat?"+params.Encode(), &out); err != nil {
		return 0, err
	}
	return out.VisitCount, nil
}
