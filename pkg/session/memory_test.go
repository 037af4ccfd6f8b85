package session

import (
	"math/rand"
	"runtime"
	"testing"

	"github.com/bastiangx/typeahead/pkg/fuzzy"
	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heapInUse() uint64 {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// A long typing session must not grow the heap: the buffer is reset,
// the list is rebuilt and the engine cache is bounded.
func TestMemoryStabilityLongRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running memory stability test in short mode")
	}

	r := rand.New(rand.NewSource(7))
	const letters = "abcdefghijklmnopqrstuvwxyz"
	words := make([]string, 0, 2000)
	for len(words) < 2000 {
		b := make([]byte, 3+r.Intn(8))
		for i := range b {
			b[i] = letters[r.Intn(len(letters))]
		}
		words = append(words, string(b))
	}
	ix, err := vocab.Build(words)
	require.NoError(t, err)
	engine, err := fuzzy.NewEngine(ix, fuzzy.WithCacheSize(128))
	require.NoError(t, err)
	s := New(engine)

	typeWords := func(n int) {
		for i := 0; i < n; i++ {
			w := words[r.Intn(len(words))]
			for _, ch := range w[:1+r.Intn(len(w))] {
				s.Apply(InsertChar{Ch: ch})
			}
			s.Apply(Accept{})
			s.Apply(InsertChar{Ch: ' '})
			if i%20 == 19 {
				s.Apply(Reset{})
			}
		}
	}

	typeWords(500)
	base := heapInUse()
	typeWords(5000)
	after := heapInUse()

	const slack = 8 << 20
	assert.LessOrEqual(t, after, base+slack, "heap grew from %d to %d bytes over a long session", base, after)
}
