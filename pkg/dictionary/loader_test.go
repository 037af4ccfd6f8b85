package dictionary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeChunkFile(t *testing.T, dir, name string, words []string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, words))
	return writeFile(t, dir, name, buf.String())
}

func TestReadText(t *testing.T) {
	words, err := ReadText(strings.NewReader("# animals\ncat\n\n  Dog  \n#skip\nfish\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "Dog", "fish"}, words)
}

func TestReadCSV(t *testing.T) {
	in := "word,freq\nHello,10\nworld\n,3\n\"new york\",2\n"
	words, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"word", "Hello", "world", "new york"}, words)
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("\"unterminated\n"))
	assert.Error(t, err)
}

func TestChunkRoundTrip(t *testing.T) {
	in := []string{"the", "of", "naïve"}
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, in))

	out, err := ReadChunk(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadChunkErrors(t *testing.T) {
	_, err := ReadChunk(bytes.NewReader([]byte{1, 0}))
	assert.Error(t, err, "short header")

	_, err = ReadChunk(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	assert.Error(t, err, "negative count")

	// count 1, length 5, only two bytes of word
	_, err = ReadChunk(bytes.NewReader([]byte{1, 0, 0, 0, 5, 0, 'a', 'b'}))
	assert.Error(t, err, "truncated word")
}

func TestReadChunkShortCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, []string{"a", "b"}))
	raw := buf.Bytes()
	raw[0] = 5 // header claims more words than present

	words, err := ReadChunk(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, words)
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "words.txt", "cat\ncatfish\n")
	csvPath := writeFile(t, dir, "words.csv", "cat,1\ndog,2\n")
	bin := writeChunkFile(t, dir, "words.bin", []string{"owl"})

	testCases := []struct {
		path string
		want []string
	}{
		{txt, []string{"cat", "catfish"}},
		{csvPath, []string{"cat", "dog"}},
		{bin, []string{"owl"}},
	}
	for _, tc := range testCases {
		got, err := LoadFile(tc.path)
		require.NoError(t, err, filepath.Base(tc.path))
		assert.Equal(t, tc.want, got, filepath.Base(tc.path))
	}
}

func TestLoadFileRejects(t *testing.T) {
	dir := t.TempDir()
	testCases := map[string]string{
		"missing":   filepath.Join(dir, "nope.txt"),
		"extension": writeFile(t, dir, "words.json", "[\"cat\"]"),
		"empty":     writeFile(t, dir, "empty.txt", ""),
		"tiny bin":  writeFile(t, dir, "tiny.bin", "ab"),
	}
	for name, path := range testCases {
		_, err := LoadFile(path)
		assert.Error(t, err, name)
	}
}

func TestLoadChunkDir(t *testing.T) {
	dir := t.TempDir()
	writeChunkFile(t, dir, "dict_0002.bin", []string{"second"})
	writeChunkFile(t, dir, "dict_0001.bin", []string{"first"})
	writeChunkFile(t, dir, "dict_0010.bin", []string{"tenth"})
	writeFile(t, dir, "dict_latest.bin", "junk")
	writeFile(t, dir, "notes.txt", "ignored")

	chunks, err := ChunkFiles(dir)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{chunks[0].ChunkID, chunks[1].ChunkID, chunks[2].ChunkID})
	assert.Equal(t, 1, chunks[0].WordCount)

	words, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "tenth"}, words)

	_, err = LoadFile(t.TempDir())
	assert.Error(t, err, "directory without chunks")
}

func TestWriteChunkDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chunks")
	in := []string{"ant", "bee", "cat", "dog", "eel"}

	chunks, err := WriteChunkDir(dir, in, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, filepath.Join(dir, "dict_0001.bin"), chunks[0].Filename)
	assert.Equal(t, []int{2, 2, 1}, []int{chunks[0].WordCount, chunks[1].WordCount, chunks[2].WordCount})

	listed, err := ChunkFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, chunks, listed)

	words, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, in, words)

	_, err = WriteChunkDir(dir, nil, 2)
	assert.Error(t, err, "nothing to write")
}

func TestLoadIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "words.txt", "Cat\ncat\n CATFISH\n")

	ix, err := LoadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "catfish"}, ix.Words())

	comments := writeFile(t, dir, "comments.txt", "# nothing here\n")
	_, err = LoadIndex(comments)
	assert.ErrorIs(t, err, vocab.ErrEmptyVocabulary)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		path string
		want FileFormat
	}{
		{writeFile(t, dir, "a.txt", "x"), FormatText},
		{writeFile(t, dir, "a.CSV", "x"), FormatCSV},
		{writeChunkFile(t, dir, "dict_0001.bin", []string{"x"}), FormatChunk},
	}
	for _, tc := range testCases {
		got, err := DetectFileFormat(tc.path)
		require.NoError(t, err, filepath.Base(tc.path))
		assert.Equal(t, tc.want, got, filepath.Base(tc.path))
	}

	_, err := DetectFileFormat(writeFile(t, dir, "words.json", "[]"))
	assert.ErrorContains(t, err, "supported: .txt, .csv, .bin")

	info, ok := GetFormatInfo(FormatChunk)
	assert.True(t, ok)
	assert.Equal(t, []string{".bin"}, info.Extensions)
	assert.Equal(t, "unknown", FormatUnknown.String())
}
