package features

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ieee0824/compseg-go/internal/atomicfile"
)

// Load reads a tab-separated feature table (Hayes & Wilson Features.txt).
// Format:
//
//	<TAB>feat1<TAB>feat2 ...
//	seg<TAB>+<TAB>-    ...
//
// The leading empty cell of the header is optional.
func Load(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNum := 0

	var names []string
	var segs []Segment
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}

		if names == nil {
			if cells[0] == "" {
				cells = cells[1:]
			}
			names = trimTrailingEmpty(cells)
			if len(names) == 0 {
				return nil, fmt.Errorf("line %d: header has no feature names", lineNum)
			}
			continue
		}

		cells = trimTrailingEmpty(cells)
		if len(cells)-1 != len(names) {
			return nil, fmt.Errorf("line %d: segment %q has %d values, want %d", lineNum, cells[0], len(cells)-1, len(names))
		}
		seg := Segment{Symbol: cells[0], Values: make([]Value, len(names))}
		for j, c := range cells[1:] {
			v, err := ParseValue(c)
			if err != nil {
				return nil, fmt.Errorf("line %d: segment %q feature %q: %w", lineNum, cells[0], names[j], err)
			}
			seg.Values[j] = v
		}
		segs = append(segs, seg)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if names == nil {
		return nil, fmt.Errorf("empty feature table")
	}
	return New(names, segs)
}

func trimTrailingEmpty(cells []string) []string {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Write serializes t in the format read by Load, header first. Output is
// canonical (leading-tab header, LF endings), so only canonical input
// round-trips byte for byte.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\t%s\n", strings.Join(t.Names, "\t"))
	for _, s := range t.Segments {
		bw.WriteString(s.Symbol)
		for _, v := range s.Values {
			bw.WriteByte('\t')
			bw.WriteByte(byte(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes t to path atomically.
func (t *Table) WriteFile(path string) error {
	return atomicfile.Write(path, t.Write)
}
