package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ieee0824/compseg-go/internal/atomicfile"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the on-disk encoding of a corpus file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZSTD
	CompressionLZ4
)

// CompressionFor infers the encoding from a file extension (.zst, .lz4).
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	}
	return CompressionNone
}

// Ext returns the file extension of the encoding, "" for none.
func (c Compression) Ext() string {
	switch c {
	case CompressionZSTD:
		return ".zst"
	case CompressionLZ4:
		return ".lz4"
	}
	return ""
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZSTD, nil
	case "lz4":
		return CompressionLZ4, nil
	}
	return CompressionNone, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", s)
}

// Load reads a corpus: one word per line, space-delimited segments.
// Blank lines are skipped.
func Load(r io.Reader) (*Corpus, error) {
	c := &Corpus{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := parseLine(line)
		if len(w.Segments) == 0 {
			continue
		}
		c.Words = append(c.Words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile opens path, decompressing .zst and .lz4 files transparently.
func LoadFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCompressed(f, CompressionFor(path))
}

// LoadCompressed reads a corpus encoded with comp.
func LoadCompressed(r io.Reader, comp Compression) (*Corpus, error) {
	switch comp {
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		return Load(dec)
	case CompressionLZ4:
		return Load(lz4.NewReader(r))
	}
	return Load(r)
}

// Write serializes c in the format read by Load.
func (c *Corpus) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, word := range c.Words {
		bw.WriteString(strings.Join(word.Segments, " "))
		if word.Extra != "" {
			bw.WriteByte('\t')
			bw.WriteString(word.Extra)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteCompressed writes c through the given encoder.
func (c *Corpus) WriteCompressed(w io.Writer, comp Compression) error {
	switch comp {
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if err := c.Write(enc); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if err := c.Write(zw); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	return c.Write(w)
}

// WriteFile writes c to path atomically, compressing by extension.
func (c *Corpus) WriteFile(path string) error {
	comp := CompressionFor(path)
	return atomicfile.Write(path, func(w io.Writer) error {
		return c.WriteCompressed(w, comp)
	})
}
