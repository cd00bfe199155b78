// Package snapshot loads the remote user snapshot used to seed an empty
// user store on first run.
//
// The snapshot is a JSON array of users. It can be served over HTTP(S),
// stored as an S3 object, or read from a local file.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/models"
)

// Fetcher returns the user snapshot.
type Fetcher interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// Options carries the transport settings shared by all fetchers.
type Options struct {
	// Timeout bounds a single fetch. Zero means no limit.
	Timeout time.Duration

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// New picks a fetcher by URL scheme: http and https, s3://bucket/key and
// file://path. An empty URL yields a nil Fetcher and no error.
func New(ctx context.Context, rawURL string, opts Options) (Fetcher, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot url: %w", err)
	}

	var f Fetcher
	switch u.Scheme {
	case "http", "https":
		f = NewHTTPFetcher(rawURL, nil)
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedSnapshotURL, rawURL)
		}
		f, err = NewS3Fetcher(ctx, u.Host, key, opts)
		if err != nil {
			return nil, err
		}
	case "file":
		path := u.Path
		if u.Host != "" {
			// file://relative/path
			path = u.Host + u.Path
		}
		f = NewFileFetcher(path)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedSnapshotURL, rawURL)
	}

	if opts.Timeout > 0 {
		f = &timeoutFetcher{next: f, timeout: opts.Timeout}
	}
	return f, nil
}

type timeoutFetcher struct {
	next    Fetcher
	timeout time.Duration
}

func (t *timeoutFetcher) FetchUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.FetchUsers(ctx)
}

func decode(r io.Reader) ([]models.User, error) {
	var list []models.User
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if list == nil {
		list = []models.User{}
	}
	return list, nil
}
