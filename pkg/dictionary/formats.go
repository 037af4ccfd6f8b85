package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat identifies how a word list is stored on disk.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one word per line
	FormatCSV                // words in the first column
	FormatChunk              // binary dict_NNNN.bin chunk
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo describes a supported format.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // smallest file that can hold one word
}

// maxChunkWords rejects chunk headers that are clearly garbage.
const maxChunkWords = 1_000_000

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatCSV: {
		Format:      FormatCSV,
		Description: "CSV Word List",
		Extensions:  []string{".csv"},
		MinSize:     1,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Binary Chunk Word List",
		Extensions:  []string{".bin"},
		MinSize:     4,
	},
}

// ValidateFileFormat checks that filename has the size, extension and, for
// chunks, the header expected of format.
func ValidateFileFormat(filename string, format FileFormat) error {
	fi, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	info, ok := supportedFormats[format]
	if !ok {
		return fmt.Errorf("unknown format: %v", format)
	}
	if fi.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for %s (minimum: %d bytes)",
			filename, fi.Size(), info.Description, info.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	matched := false
	for _, e := range info.Extensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return fmt.Errorf("file %s has extension %q, %s expects %v",
			filename, ext, info.Description, info.Extensions)
	}

	if format == FormatChunk {
		n, err := chunkWordCount(filename)
		if err != nil {
			return err
		}
		log.Debugf("Chunk %s validated: %d words", filename, n)
	}
	return nil
}

// chunkWordCount reads and sanity checks a chunk header.
func chunkWordCount(filename string) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	var n int32
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if n < 0 || n > maxChunkWords {
		return 0, fmt.Errorf("invalid word count in %s: %d", filename, n)
	}
	return int(n), nil
}

// DetectFileFormat picks a format from the extension and validates the file against it.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := ValidateFileFormat(filename, format); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s (supported: %s, or a directory of dict_*.bin chunks)",
		filename, strings.Join(SupportedExtensions(), ", "))
}

// SupportedExtensions lists the file extensions LoadFile understands.
func SupportedExtensions() []string {
	var exts []string
	for _, format := range []FileFormat{FormatText, FormatCSV, FormatChunk} {
		if info, ok := GetFormatInfo(format); ok {
			exts = append(exts, info.Extensions...)
		}
	}
	return exts
}

// GetFormatInfo returns information about format.
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, ok := supportedFormats[format]
	return info, ok
}
