package snapshot

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/storefront/internal/models"
)

// FileFetcher reads the snapshot from a local JSON file.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) FetchUsers(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer fh.Close()
	return decode(fh)
}
