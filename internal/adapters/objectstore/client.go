// Package objectstore talks to the storage REST API (/storage/v1/object/...) with the
// service-role key, so uploads bypass object-level policies that block anonymous writes.
package objectstore

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tourism_booking/internal/adapters/observability"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrUnauthorized = errors.New("storage: unauthorized")
)

type Client struct {
	base      string // https://<project>.example.co
	publicURL string // base + /storage/v1/object/public unless overridden
	key       string
	hc        *http.Client
	rl        *rate.Limiter
}

func New(base, publicURL, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("storage URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("storage service key is required")
	}
	if rps <= 0 {
		rps = 10
	}
	base = strings.TrimRight(base, "/")
	if publicURL == "" {
		publicURL = base + "/storage/v1/object/public"
	}
	return &Client{
		base:      base,
		publicURL: strings.TrimRight(publicURL, "/"),
		key:       key,
		hc:        &http.Client{Timeout: 30 * time.Second},
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) PublicURL(bucket, path string) string {
	return c.publicURL + "/" + bucket + "/" + escapePath(path)
}

// Upload writes body to bucket/path, overwriting an existing object.
func (c *Client) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) error {
	// buffer once so retries can resend the payload
	buf, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.base, bucket, escapePath(path))
	hdr := http.Header{}
	hdr.Set("Content-Type", contentType)
	hdr.Set("x-upsert", "true")
	hdr.Set("Cache-Control", "max-age=3600")
	return c.do(ctx, "upload", http.MethodPost, u, hdr, buf)
}

// Delete removes paths from bucket in a single request.
func (c *Client) Delete(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/storage/v1/object/%s", c.base, bucket)
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	return c.do(ctx, "delete", http.MethodDelete, u, hdr, payload)
}

// do performs one request with client-side rate limiting and retries.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, op, method, url string, hdr http.Header, body []byte) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		for k, vs := range hdr {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("apikey", c.key)
		req.Header.Set("User-Agent", "tourism-booking/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveStorage("rest", op, 0, time.Since(start))
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveStorage("rest", op, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusNoContent:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("storage remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("storage bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
