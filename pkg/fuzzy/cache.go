package fuzzy

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// resultCache memoizes ranked results for recently typed fragments.
// Backspacing and retyping is common, and the index never changes under
// an Engine, so a hit is always valid.
type resultCache struct {
	entries *lru.Cache[string, []Candidate]
	hits    int
	misses  int
}

func newResultCache(size int) (*resultCache, error) {
	c, err := lru.New[string, []Candidate](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{entries: c}, nil
}

func cacheKey(q Query, prefixOnly bool) string {
	var b strings.Builder
	b.Grow(len(q.Fragment) + 12)
	b.WriteString(strconv.Itoa(q.MaxCost))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(q.Limit))
	if prefixOnly {
		b.WriteString(":p:")
	} else {
		b.WriteString(":f:")
	}
	b.WriteString(q.Fragment)
	return b.String()
}

func (c *resultCache) get(key string) ([]Candidate, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return cloneCandidates(v), true
}

func (c *resultCache) put(key string, cands []Candidate) {
	c.entries.Add(key, cloneCandidates(cands))
}

func (c *resultCache) stats() map[string]int {
	return map[string]int{
		"cacheEntries": c.entries.Len(),
		"cacheHits":    c.hits,
		"cacheMisses":  c.misses,
	}
}

func cloneCandidates(in []Candidate) []Candidate {
	if in == nil {
		return nil
	}
	out := make([]Candidate, len(in))
	copy(out, in)
	return out
}
