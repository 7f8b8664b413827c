package layout

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of layouts a Segmenter keeps.
const DefaultCacheSize = 256

type layoutKey struct {
	text string
	opts Options
}

// Segmenter caches layouts so text redrawn every frame is segmented once.
// Returned slices are shared with the cache and must not be modified.
type Segmenter struct {
	cache  *lru.Cache[layoutKey, []Line]
	hits   uint64
	misses uint64
}

// NewSegmenter creates a segmenter holding up to size layouts.
// A non-positive size uses DefaultCacheSize.
func NewSegmenter(size int) *Segmenter {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[layoutKey, []Line](size)
	return &Segmenter{cache: cache}
}

// Layout returns the cached layout of text, computing it on a miss.
func (s *Segmenter) Layout(text string, opts Options) []Line {
	key := layoutKey{text: text, opts: opts}
	if lines, ok := s.cache.Get(key); ok {
		s.hits++
		return lines
	}
	s.misses++

	lines := Layout(text, opts)
	s.cache.Add(key, lines)
	return lines
}

// Segment returns the graphemes of a single row of text.
func (s *Segmenter) Segment(text string) []string {
	lines := s.Layout(text, Options{})
	if len(lines) == 1 {
		return lines[0].Graphemes
	}
	return Segment(text)
}

// Len returns the number of cached layouts.
func (s *Segmenter) Len() int {
	return s.cache.Len()
}

// Purge drops every cached layout.
func (s *Segmenter) Purge() {
	s.cache.Purge()
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// HitRate returns the fraction of lookups served from the cache.
func (c CacheStats) HitRate() float64 {
	total := c.Hits + c.Misses
	if total == 0 {
		return 0
	}
	return float64(c.Hits) / float64(total)
}

// Stats returns the current cache statistics.
func (s *Segmenter) Stats() CacheStats {
	return CacheStats{Hits: s.hits, Misses: s.misses, Size: s.cache.Len()}
}
