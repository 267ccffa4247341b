package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T) (dir, ld, feats string) {
	t.Helper()
	dir = t.TempDir()
	ld = filepath.Join(dir, "LearningData.txt")
	feats = filepath.Join(dir, "Features.txt")
	require.NoError(t, os.WriteFile(ld, []byte("p a t a\nt a p a\n"), 0o644))
	require.NoError(t, os.WriteFile(feats, []byte("\tsyll\tcons\np\t-\t+\nt\t-\t+\na\t+\t-\n"), 0o644))
	return dir, ld, feats
}

func TestRatiosBySegments(t *testing.T) {
	_, ld, _ := writeInputs(t)
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-ld", ld, "-segs", "p t"}, &out, &errOut))
	assert.Equal(t, "\tp\tt\np\t0.00\t2.00\nt\t2.00\t0.00\n", out.String())
	assert.Contains(t, errOut.String(), "2 pairs")
}

func TestCountsByClass(t *testing.T) {
	dir, ld, feats := writeInputs(t)
	outPath := filepath.Join(dir, "oe.txt")
	var errOut bytes.Buffer
	require.NoError(t, run([]string{"-ld", ld, "-feats", feats, "-class", "[+cons]", "-counts", "-precision", "1", "-output", outPath}, &bytes.Buffer{}, &errOut))
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "\tp\tt\np\t0/0.5\t1/0.5\nt\t1/0.5\t0/0.5\n", string(got))
	assert.Contains(t, errOut.String(), "[+cons]: p t")
}

func TestLocal(t *testing.T) {
	_, ld, _ := writeInputs(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"-ld", ld, "-segs", "p t", "-local"}, &out, &bytes.Buffer{}))
	assert.Equal(t, "\tp\tt\np\tNA\tNA\nt\tNA\tNA\n", out.String())
}

func TestArgumentErrors(t *testing.T) {
	_, ld, feats := writeInputs(t)
	for name, args := range map[string][]string{
		"no selection":   {"-ld", ld},
		"both":           {"-ld", ld, "-segs", "p", "-class", "+cons"},
		"class no feats": {"-ld", ld, "-class", "+cons"},
		"empty class":    {"-ld", ld, "-feats", feats, "-class", "+cons,+syll"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run(args, &bytes.Buffer{}, &bytes.Buffer{}))
		})
	}
}
