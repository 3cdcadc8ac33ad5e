package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/stuxhq/stux/pkg/model"
)

// Feeds holds the raw content of every pillar
type Feeds struct {
	Community []model.CommunityPost
	Exchange  []model.ExchangePost
	Insight   []model.InsightPost
}

// FeedFileName is the JSONL file holding a pillar's items
func FeedFileName(p model.Pillar) string {
	return string(p) + ".jsonl"
}

// FeedsFS returns the directory as a filesystem, or the built-in seed data
// when dir is empty.
func FeedsFS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(defaults, "defaults")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("feeds directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("feeds directory: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// LoadFeeds reads all three pillar files concurrently. A missing file yields
// an empty feed; any other read error fails the whole load.
func LoadFeeds(ctx context.Context, dir string, logger *log.Logger) (*Feeds, error) {
	if logger == nil {
		logger = log.Default()
	}

	fsys, err := FeedsFS(dir)
	if err != nil {
		return nil, err
	}

	var feeds Feeds
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range model.Pillars {
		g.Go(func() error {
			return feeds.load(ctx, fsys, p, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &feeds, nil
}

// ReloadPillar reads a single pillar into a fresh Feeds; the other pillars
// are left nil.
func ReloadPillar(ctx context.Context, dir string, p model.Pillar, logger *log.Logger) (*Feeds, error) {
	if logger == nil {
		logger = log.Default()
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("unknown pillar %q", p)
	}
	fsys, err := FeedsFS(dir)
	if err != nil {
		return nil, err
	}
	var feeds Feeds
	if err := feeds.load(ctx, fsys, p, logger); err != nil {
		return nil, err
	}
	return &feeds, nil
}

// load fills the field for p only, so concurrent loads of distinct pillars
// do not race.
func (f *Feeds) load(ctx context.Context, fsys fs.FS, p model.Pillar, logger *log.Logger) error {
	var err error
	switch p {
	case model.PillarCommunity:
		f.Community, err = loadPillar[model.CommunityPost](ctx, fsys, p, logger)
	case model.PillarExchange:
		f.Exchange, err = loadPillar[model.ExchangePost](ctx, fsys, p, logger)
		normalizeCategories(f.Exchange)
	case model.PillarInsight:
		f.Insight, err = loadPillar[model.InsightPost](ctx, fsys, p, logger)
	default:
		err = fmt.Errorf("unknown pillar %q", p)
	}
	return err
}

// LoadPillarFile reads one pillar from a JSONL file anywhere on disk; the
// other pillars are left nil. Unlike a feeds directory, a missing file is an
// error.
func LoadPillarFile(path string, p model.Pillar) (*Feeds, error) {
	var (
		feeds Feeds
		err   error
	)
	switch p {
	case model.PillarCommunity:
		feeds.Community, err = LoadItemsFromFile[model.CommunityPost](path)
	case model.PillarExchange:
		feeds.Exchange, err = LoadItemsFromFile[model.ExchangePost](path)
		normalizeCategories(feeds.Exchange)
	case model.PillarInsight:
		feeds.Insight, err = LoadItemsFromFile[model.InsightPost](path)
	default:
		return nil, fmt.Errorf("unknown pillar %q", p)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s feed: %w", p, err)
	}
	return &feeds, nil
}

func normalizeCategories(posts []model.ExchangePost) {
	for i := range posts {
		posts[i].Category = model.ParseExchangeCategory(string(posts[i].Category))
	}
}

func loadPillar[T any](ctx context.Context, fsys fs.FS, p model.Pillar, logger *log.Logger) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s feed canceled: %w", p, err)
	}

	name := FeedFileName(p)
	items, skipped, err := LoadItemsFS[T](fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("feed file missing, using empty feed", "pillar", p, "file", name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s feed: %w", p, err)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed feed lines", "pillar", p, "skipped", skipped)
	}
	logger.Debug("loaded feed", "pillar", p, "items", len(items))
	return items, nil
}
