// Package fuzzy ranks vocabulary words against the fragment being typed.
//
// Costs are bounded prefix edit distances: a word scores by how many edits
// turn the fragment into one of its prefixes, and MaxCost caps those edits.
// The exact word scores 0, a plain continuation scores 1 and a word that
// needed d edits scores d. Results are ordered by cost, continuations of what
// the user already typed ahead of corrections at the same cost, then by word.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/pkg/vocab"
)

const (
	// DefaultMaxCost is the edit cost ceiling used when a query does not set one.
	DefaultMaxCost = 2
	// DefaultLimit is the result cap used when a query does not set one.
	DefaultLimit = 5
)

// Candidate is one ranked completion.
type Candidate struct {
	Word string
	Cost int
}

// Query describes a single search.
// A negative MaxCost or a non-positive Limit selects the default.
type Query struct {
	Fragment string
	MaxCost  int
	Limit    int
}

// NewQuery returns a query for fragment with the default bounds.
func NewQuery(fragment string) Query {
	return Query{Fragment: fragment, MaxCost: DefaultMaxCost, Limit: DefaultLimit}
}

func (q Query) withDefaults() Query {
	if q.MaxCost < 0 {
		q.MaxCost = DefaultMaxCost
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// Search scans the whole index and returns at most q.Limit candidates
// with cost <= q.MaxCost. An empty fragment yields no candidates.
func Search(ix *vocab.Index, q Query) []Candidate {
	q = q.withDefaults()
	fragment := vocab.Normalize(q.Fragment)
	if fragment == "" || ix.Len() == 0 {
		return nil
	}

	frag := []rune(fragment)
	prev := make([]int, len(frag)+1)
	curr := make([]int, len(frag)+1)
	var wordBuf []rune

	var out []Candidate
	ix.Each(func(word string) bool {
		// Every edit changes the length by at most one.
		if len(frag)-utf8.RuneCountInString(word) > q.MaxCost {
			return true
		}
		wordBuf = appendRunes(wordBuf[:0], word)
		dist, ok := prefixDistance(frag, wordBuf, q.MaxCost, prev, curr)
		if !ok {
			return true
		}
		if cost := score(fragment, word, dist); cost <= q.MaxCost {
			out = append(out, Candidate{Word: word, Cost: cost})
		}
		return true
	})

	return rank(out, fragment, q.Limit)
}

// SearchPrefix only returns the fragment itself and its exact continuations,
// walking the trie instead of scoring every word.
func SearchPrefix(ix *vocab.Index, q Query) []Candidate {
	q = q.withDefaults()
	fragment := vocab.Normalize(q.Fragment)
	if fragment == "" || ix.Len() == 0 {
		return nil
	}

	var out []Candidate
	ix.WithPrefix(fragment, func(word string) bool {
		if cost := score(fragment, word, 0); cost <= q.MaxCost {
			out = append(out, Candidate{Word: word, Cost: cost})
		}
		return true
	})
	return rank(out, fragment, q.Limit)
}

// rank sorts by cost, then continuations of fragment before corrections,
// then word, and truncates to limit.
func rank(cands []Candidate, fragment string, limit int) []Candidate {
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		if ap, bp := strings.HasPrefix(a.Word, fragment), strings.HasPrefix(b.Word, fragment); ap != bp {
			return ap
		}
		return a.Word < b.Word
	})
	if len(cands) > limit && limit > 0 {
		cands = cands[:limit]
	}
	return cands
}

func appendRunes(dst []rune, s string) []rune {
	for _, r := range s {
		dst = append(dst, r)
	}
	return dst
}
