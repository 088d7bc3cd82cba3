package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"seeshare/cfg"
	"seeshare/pkg/domain"
	"seeshare/svc/util"
)

const maxResponseSize = 4 * 1024 * 1024

// Client is a typed wrapper around the sharing service's resource
// families. Pure transport: it attaches the credential, shapes
// requests and responses, and maps failures onto the error taxonomy.
// No business logic lives here.
type Client struct {
	base string
	key  cfg.Secret
	http *http.Client
	lim  *rate.Limiter
	log  zerolog.Logger
}

func NewClient(c *cfg.Cfg) *Client {
	return &Client{
		base: c.BaseURL,
		key:  c.APIKey,
		http: &http.Client{Timeout: c.RequestTimeout},
		lim:  rate.NewLimiter(rate.Limit(c.RequestRate), c.RequestBurst),
		log:  util.GetLogger().With().Str("component", "api").Logger(),
	}
}

// envelope is the service's common response wrapper. The /file/delete
// endpoint reports success at the top level instead of inside data.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		rdr = bytes.NewReader(buf)
	}
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.send(ctx, method, path, rdr, contentType)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	if err := c.lim.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", c.key.Value())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := util.NewRequestID()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return nil, domain.NetworkErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, domain.NetworkErr(err)
	}
	var env envelope
	// Decode failures are tolerated here so a non-JSON error page still
	// maps to a status-derived message.
	_ = json.Unmarshal(raw, &env)

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.APIErr(resp.StatusCode, env.Message)
	}
	return &env, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func decodeData(env *envelope, out any) error {
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return errors.New("response carries no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "decode response data")
	}
	return nil
}

type domainsData struct {
	Domains []string `json:"domains"`
}
