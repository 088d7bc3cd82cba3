package api

import (
	"context"
	"net/http"
)

type TextType string

const (
	TextPlain    TextType = "plain_text"
	TextSource   TextType = "source_code"
	TextMarkdown TextType = "markdown"
)

type CreateTextReq struct {
	Content    string   `json:"content"`
	Title      string   `json:"title"`
	Domain     string   `json:"domain,omitempty"`
	CustomSlug string   `json:"custom_slug,omitempty"`
	Password   string   `json:"password,omitempty"`
	ExpireAt   int64    `json:"expire_at,omitempty"`
	TextType   TextType `json:"text_type,omitempty"`
	TagIDs     []int    `json:"tag_ids,omitempty"`
}

type TextData struct {
	ShortURL   string `json:"short_url"`
	Slug       string `json:"slug"`
	CustomSlug string `json:"custom_slug"`
}

func (c *Client) CreateText(ctx context.Context, req CreateTextReq) (*TextData, error) {
	env, err := c.do(ctx, http.MethodPost, "/text", req)
	if err != nil {
		return nil, err
	}
	var out TextData
	if err := decodeData(env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateTextReq struct {
	Content string `json:"content"`
	Domain  string `json:"domain"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
}

func (c *Client) UpdateText(ctx context.Context, req UpdateTextReq) error {
	_, err := c.do(ctx, http.MethodPut, "/text", req)
	return err
}

func (c *Client) DeleteText(ctx context.Context, domain, slug string) error {
	_, err := c.do(ctx, http.MethodDelete, "/text", map[string]string{
		"domain": domain,
		"slug":   slug,
	})
	return err
}

func (c *Client) TextDomains(ctx context.Context) ([]string, error) {
	var out domainsData
	if err := c.get(ctx, "/text/domains", &out); err != nil {
		return nil, err
	}
	return out.Domains, nil
}
