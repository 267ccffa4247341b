package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ieee0824/compseg-go/features"
)

// ReportHeader is the column header of an inseparability report.
var ReportHeader = []string{"ngram", "insep", "N(C1C2)", "N(C1)", "N(C2)", "p(C1C2)", "class(C1)", "class(C2)"}

// Describer maps a segment to its minimal natural-class description.
// *natclass.Index implements it.
type Describer interface {
	Describe(symbol string) ([]string, error)
}

// WriteReport writes records as a tab-delimited inseparability report in the
// given order. Inseparability is rounded to 2 decimals and p-values to 3.
// If d is nil the class columns are written as "[]".
func WriteReport(w io.Writer, records []Record, d Describer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(ReportHeader, "\t"))
	for _, r := range records {
		c1, err := describe(d, r.First)
		if err != nil {
			return err
		}
		c2, err := describe(d, r.Second)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s %s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			r.First, r.Second,
			strconv.FormatFloat(r.Inseparability, 'f', 2, 64),
			r.Count, r.FirstCount, r.SecondCount,
			strconv.FormatFloat(r.PValue, 'f', 3, 64),
			c1, c2)
	}
	return bw.Flush()
}

func describe(d Describer, sym string) (string, error) {
	if d == nil {
		return "[]", nil
	}
	m, err := d.Describe(sym)
	if err != nil {
		return "", fmt.Errorf("describe %q: %w", sym, err)
	}
	return features.Bracket(m), nil
}

// ReportRow is one parsed line of an inseparability report. Values carry the
// report's rounding.
type ReportRow struct {
	First, Second  string
	Inseparability float64
	Count          int
	FirstCount     int
	SecondCount    int
	PValue         float64
	FirstClass     []string
	SecondClass    []string
}

// ReadReport parses a report written by WriteReport. Reports without the
// class columns are accepted.
func ReadReport(r io.Reader) ([]ReportRow, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []ReportRow
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if lineNum == 1 && strings.HasPrefix(line, "ngram\t") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 6 && len(cols) != 8 {
			return nil, fmt.Errorf("line %d: expected 6 or 8 columns, got %d", lineNum, len(cols))
		}
		first, second, ok := strings.Cut(cols[0], " ")
		if !ok || first == "" || second == "" {
			return nil, fmt.Errorf("line %d: malformed ngram %q", lineNum, cols[0])
		}
		row := ReportRow{First: first, Second: second}
		var err error
		if row.Inseparability, err = strconv.ParseFloat(cols[1], 64); err != nil {
			return nil, fmt.Errorf("line %d: insep: %w", lineNum, err)
		}
		ints := []*int{&row.Count, &row.FirstCount, &row.SecondCount}
		for i, dst := range ints {
			if *dst, err = strconv.Atoi(cols[2+i]); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNum, ReportHeader[2+i], err)
			}
		}
		if row.PValue, err = strconv.ParseFloat(cols[5], 64); err != nil {
			return nil, fmt.Errorf("line %d: p-value: %w", lineNum, err)
		}
		if len(cols) == 8 {
			row.FirstClass = unbracket(cols[6])
			row.SecondClass = unbracket(cols[7])
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return rows, nil
}

func unbracket(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
