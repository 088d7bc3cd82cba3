package api

import (
	"context"
	"encoding/json"
)

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Tags lists the account's link tags. The /tags payload is nested one
// envelope deeper than every other endpoint.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var outer struct {
		Code int `json:"code"`
		Data struct {
			Tags []Tag `json:"tags"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := c.get(ctx, "/tags", &outer); err != nil {
		return nil, err
	}
	return outer.Data.Tags, nil
}

// Usage returns the account usage map as the server reports it; values
// mix numbers and strings so they stay raw.
func (c *Client) Usage(ctx context.Context) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := c.get(ctx, "/usage", &out); err != nil {
		return nil, err
	}
	return out, nil
}
