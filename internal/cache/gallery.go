package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/match"
)

// GalleryCache caches the reference gallery of a section so repeated
// recognition runs skip reloading every embedding from the students table.
// Entries are invalidated whenever an enrollment or deletion changes the
// section roster.
type GalleryCache struct {
	cache *PGCache
	ttl   time.Duration
}

// NewGalleryCache creates a gallery cache with the given TTL
func NewGalleryCache(cache *PGCache, ttl time.Duration) *GalleryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GalleryCache{
		cache: cache,
		ttl:   ttl,
	}
}

func galleryKey(section string) string {
	return fmt.Sprintf("gallery:%s", section)
}

// GetGallery returns the cached gallery for a section, or ok=false on a
// miss. Cache errors are treated as misses.
func (g *GalleryCache) GetGallery(ctx context.Context, section string) ([]match.GalleryEntry, bool) {
	data, err := g.cache.Get(ctx, galleryKey(section))
	if err != nil {
		return nil, false
	}

	var gallery []match.GalleryEntry
	if err := json.Unmarshal(data, &gallery); err != nil {
		// Corrupted entry, drop it
		_ = g.cache.Delete(ctx, galleryKey(section))
		return nil, false
	}

	return gallery, true
}

// SetGallery stores the gallery for a section
func (g *GalleryCache) SetGallery(ctx context.Context, section string, gallery []match.GalleryEntry) error {
	data, err := json.Marshal(gallery)
	if err != nil {
		return fmt.Errorf("marshal gallery: %w", err)
	}
	return g.cache.Set(ctx, galleryKey(section), data, g.ttl)
}

// Invalidate drops the cached gallery for a section
func (g *GalleryCache) Invalidate(ctx context.Context, section string) error {
	return g.cache.Delete(ctx, galleryKey(section))
}
