// Package dictionary reads word lists from disk and keeps a vocabulary index
// in step with them.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/log"
)

// DefaultChunkSize is the number of words WriteChunkDir puts in one chunk.
const DefaultChunkSize = 10000

// ChunkInfo describes one dict_NNNN.bin file in a chunk directory.
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// LoadIndex loads path with LoadFile and builds an index from it.
func LoadIndex(path string) (*vocab.Index, error) {
	words, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	ix, err := vocab.Build(words)
	if err != nil {
		return nil, fmt.Errorf("failed to build index from %s: %w", path, err)
	}
	log.Debugf("Loaded %d words from %s", ix.Len(), path)
	return ix, nil
}

// LoadFile reads the raw words of a word list. path may be a .txt, .csv or
// .bin file, or a directory of dict_*.bin chunks.
func LoadFile(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return LoadChunkDir(path)
	}

	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var words []string
	switch format {
	case FormatText:
		words, err = ReadText(f)
	case FormatCSV:
		words, err = ReadCSV(f)
	case FormatChunk:
		words, err = ReadChunk(bufio.NewReader(f))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return words, nil
}

// ReadText reads one word per line. Blank lines and lines starting with #
// are skipped.
func ReadText(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, sc.Err()
}

// ReadCSV reads the first column of every record. Rows may have any number
// of fields.
func ReadCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var words []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return words, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		words = append(words, rec[0])
	}
}

// ReadChunk decodes a binary chunk: an int32 word count, then per word a
// uint16 length, the word bytes and a uint16 rank. Ranks are skipped.
func ReadChunk(r io.Reader) ([]string, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if total < 0 || total > maxChunkWords {
		return nil, fmt.Errorf("invalid chunk word count %d", total)
	}

	words := make([]string, 0, total)
	for i := 0; i < int(total); i++ {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			if errors.Is(err, io.EOF) {
				log.Warnf("Chunk ended after %d of %d words", i, total)
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		words = append(words, string(buf))
	}
	return words, nil
}

// WriteChunk encodes words in the format ReadChunk reads, ranking them in
// the order given.
func WriteChunk(w io.Writer, words []string) error {
	if len(words) > maxChunkWords {
		return fmt.Errorf("too many words for one chunk: %d", len(words))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word) > 0xFFFF {
			return fmt.Errorf("word %d is too long: %d bytes", i, len(word))
		}
		rank := uint16(min(i+1, 0xFFFF))
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteChunkDir splits words into dict_NNNN.bin chunks of at most size words
// inside dir, numbered from 1 in the order given. A non-positive size selects
// DefaultChunkSize.
func WriteChunkDir(dir string, words []string, size int) ([]ChunkInfo, error) {
	if len(words) == 0 {
		return nil, errors.New("no words to write")
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	size = min(size, maxChunkWords)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create chunk dir %s: %w", dir, err)
	}

	var chunks []ChunkInfo
	for start, id := 0, 1; start < len(words); start, id = start+size, id+1 {
		end := min(start+size, len(words))
		name := filepath.Join(dir, fmt.Sprintf("dict_%04d.bin", id))
		if err := createChunkFile(name, words[start:end]); err != nil {
			return chunks, err
		}
		chunks = append(chunks, ChunkInfo{ChunkID: id, Filename: name, WordCount: end - start})
	}
	return chunks, nil
}

func createChunkFile(path string, words []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close chunk file %s: %w", path, cerr)
		}
	}()
	if err := WriteChunk(f, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ChunkFiles lists the dict_NNNN.bin files in dir ordered by chunk id.
func ChunkFiles(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		id, ok := chunkID(file)
		if !ok {
			log.Debugf("Skipping %s: not a numbered chunk", file)
			continue
		}
		n, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to read word count for chunk %s: %v", file, err)
			continue
		}
		chunks = append(chunks, ChunkInfo{ChunkID: id, Filename: file, WordCount: n})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// LoadChunkDir reads every chunk in dir, in chunk id order.
func LoadChunkDir(dir string) ([]string, error) {
	chunks, err := ChunkFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dir)
	}

	var words []string
	for _, c := range chunks {
		chunk, err := readChunkFile(c.Filename)
		if err != nil {
			return nil, err
		}
		words = append(words, chunk...)
	}
	log.Debugf("Read %d chunks from %s", len(chunks), dir)
	return words, nil
}

func readChunkFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", path, err)
	}
	defer f.Close()

	words, err := ReadChunk(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return words, nil
}

// chunkID parses dict_0001.bin as 1.
func chunkID(path string) (int, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "dict_") || !strings.HasSuffix(base, ".bin") {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(base, "dict_"), ".bin"))
	if err != nil {
		return 0, false
	}
	return id, true
}
