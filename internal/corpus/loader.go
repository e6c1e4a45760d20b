package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Origin records where a corpus came from, so the viewer can tell the
// user (and tests can assert the fallback path engaged).
type Origin int

const (
	OriginNetwork Origin = iota
	OriginCache
	OriginFile
)

func (o Origin) String() string {
	switch o {
	case OriginNetwork:
		return "network"
	case OriginCache:
		return "cache"
	case OriginFile:
		return "file"
	}
	return "unknown"
}

// ErrNoCorpus reports that neither the network nor the cache produced a
// corpus; the caller should fall back to a user-supplied file.
var ErrNoCorpus = errors.New("corpus unavailable: network and cache both failed")

// Loader retrieves the raw corpus: a network attempt raced against a
// fixed timeout, then the local fetch cache, then ErrNoCorpus so the UI
// can prompt for a file.
type Loader struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	Cache   *Cache // optional
	Log     *zap.Logger
}

// NewLoader constructs a loader with sane defaults. cache may be nil.
func NewLoader(url string, timeout time.Duration, cache *Cache, log *zap.Logger) *Loader {
	if timeout <= 0 {
		timeout = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{},
		Cache:   cache,
		Log:     log,
	}
}

type fetchResult struct {
	body string
	err  error
}

// Load races the network retrieval against the loader's timeout. First to
// finish wins: if the timer fires first the fallback path is entered and
// the fetch's eventual completion is discarded, never merged. A network
// success is written back to the cache best-effort.
func (l *Loader) Load(ctx context.Context) (RawCorpus, Origin, error) {
	if l.URL != "" {
		// Buffered so a late fetch can complete and be dropped without
		// leaking the goroutine.
		results := make(chan fetchResult, 1)
		go func() {
			body, err := l.fetch(ctx)
			results <- fetchResult{body: body, err: err}
		}()

		timer := time.NewTimer(l.Timeout)
		defer timer.Stop()

		select {
		case res := <-results:
			if res.err == nil {
				l.Log.Info("corpus retrieved", zap.String("url", l.URL), zap.Int("bytes", len(res.body)))
				l.storeInCache(res.body)
				return RawCorpus(res.body), OriginNetwork, nil
			}
			l.Log.Warn("corpus retrieval failed", zap.String("url", l.URL), zap.Error(res.err))
		case <-timer.C:
			l.Log.Warn("corpus retrieval timed out", zap.String("url", l.URL), zap.Duration("timeout", l.Timeout))
		case <-ctx.Done():
			return "", OriginNetwork, ctx.Err()
		}
	}

	if l.Cache != nil && l.URL != "" {
		if body, fetchedAt, err := l.Cache.Get(l.URL); err == nil {
			l.Log.Info("serving corpus from cache", zap.Time("fetched_at", fetchedAt))
			return RawCorpus(body), OriginCache, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			l.Log.Warn("cache lookup failed", zap.Error(err))
		}
	}

	return "", OriginFile, ErrNoCorpus
}

// LoadFile reads a user-supplied corpus file. This is the terminal
// fallback once Load returned ErrNoCorpus, and the direct path when the
// viewer is pointed at a local document.
func (l *Loader) LoadFile(path string) (RawCorpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	return RawCorpus(data), nil
}

func (l *Loader) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (l *Loader) storeInCache(body string) {
	if l.Cache == nil {
		return
	}
	if err := l.Cache.Put(l.URL, body); err != nil {
		l.Log.Warn("caching corpus failed", zap.Error(err))
	}
}
