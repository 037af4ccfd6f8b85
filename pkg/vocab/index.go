// Package vocab holds the immutable word index every completion query runs against.
package vocab

import (
	"errors"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyVocabulary is returned by Build when no usable word survives normalization.
var ErrEmptyVocabulary = errors.New("vocab: empty vocabulary")

// Index is a read-only set of lowercase words.
// It is rebuilt, never edited, when the source word list changes.
type Index struct {
	words []string
	trie  *patricia.Trie
}

// Normalize trims, composes and lowercases s.
// Both vocabulary entries and query fragments go through it.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Casers keep internal state, so one per call.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// Build normalizes the given words and returns the index.
func Build(words []string) (*Index, error) {
	trie := patricia.NewTrie()
	unique := make([]string, 0, len(words))

	for _, w := range words {
		w = Normalize(w)
		if w == "" {
			continue
		}
		// Insert reports false when the key is already present.
		if trie.Insert(patricia.Prefix(w), struct{}{}) {
			unique = append(unique, w)
		}
	}

	if len(unique) == 0 {
		return nil, ErrEmptyVocabulary
	}

	sort.Strings(unique)
	return &Index{words: unique, trie: trie}, nil
}

// Contains reports whether word is in the index. The argument is not normalized.
func (ix *Index) Contains(word string) bool {
	if ix == nil || word == "" {
		return false
	}
	return ix.trie.Get(patricia.Prefix(word)) != nil
}

// Len returns the number of distinct words.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.words)
}

// Words returns a sorted copy of every word in the index.
func (ix *Index) Words() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, len(ix.words))
	copy(out, ix.words)
	return out
}

// Each calls fn for every word in lexicographic order until fn returns false.
func (ix *Index) Each(fn func(word string) bool) {
	if ix == nil {
		return
	}
	for _, w := range ix.words {
		if !fn(w) {
			return
		}
	}
}

// WithPrefix calls fn for every word starting with prefix, including prefix itself.
// Visiting order follows the trie and is not guaranteed to be sorted.
func (ix *Index) WithPrefix(prefix string, fn func(word string) bool) {
	if ix == nil {
		return
	}
	_ = ix.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		if !fn(string(p)) {
			return errStopWalk
		}
		return nil
	})
}

var errStopWalk = errors.New("vocab: stop walk")
