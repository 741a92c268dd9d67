// Package remote fetches configuration documents published by the
// configuration host.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kiwari-pos/pricebook/internal/pricing"
)

// maxDocumentSize caps how much of a response body is read.
const maxDocumentSize = 1 << 20

var ErrNoSources = errors.New("no configuration sources")

// Source produces a configuration patch.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (pricing.Patch, error)
}

// Result is the outcome of fetching from one source.
type Result struct {
	Source string
	Patch  pricing.Patch
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

// TryInOrder fetches from each source in turn and stops at the first
// success. It returns that result (or the last failure) together with every
// attempt made.
func TryInOrder(ctx context.Context, sources ...Source) (Result, []Result) {
	if len(sources) == 0 {
		return Result{Err: ErrNoSources}, nil
	}

	attempts := make([]Result, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Result{Source: src.Name(), Err: err})
			break
		}
		p, err := src.Fetch(ctx)
		res := Result{Source: src.Name(), Patch: p, Err: err}
		attempts = append(attempts, res)
		if res.OK() {
			return res, attempts
		}
	}
	return attempts[len(attempts)-1], attempts
}

// HTTPSource fetches a configuration document with a cache-busting GET.
type HTTPSource struct {
	URL     string
	BuildID string
	Client  *http.Client
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Fetch(ctx context.Context) (pricing.Patch, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return pricing.Patch{}, fmt.Errorf("parse url: %w", err)
	}
	if s.BuildID != "" {
		q := u.Query()
		q.Set("v", s.BuildID)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return pricing.Patch{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return pricing.Patch{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pricing.Patch{}, fmt.Errorf("fetch: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return pricing.Patch{}, fmt.Errorf("read body: %w", err)
	}
	return pricing.DecodePatch(body)
}

// HTTPSources builds sources for the non-empty URLs in order.
func HTTPSources(buildID string, client *http.Client, urls ...string) []Source {
	var out []Source
	for _, u := range urls {
		if u == "" {
			continue
		}
		out = append(out, HTTPSource{URL: u, BuildID: buildID, Client: client})
	}
	return out
}
