package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ieee0824/compseg-go/natclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeatures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Features.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const table = "\tsyll\tcons\tvoice\n" +
	"p\t-\t+\t-\n" +
	"b\t-\t+\t+\n" +
	"a\t+\t-\t+\n"

func TestNaturalClasses(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-feats", writeFeatures(t, table)}, &out, &errOut))
	assert.Contains(t, out.String(), "[+cons]\tp b\n")
	assert.Contains(t, out.String(), "[+voice]\tb a\n")
	assert.Contains(t, errOut.String(), "natural classes over 3 segments")
}

func TestPartitions(t *testing.T) {
	path := writeFeatures(t, table)
	var out bytes.Buffer
	require.NoError(t, run([]string{"-feats", path, "-consonants"}, &out, &bytes.Buffer{}))
	assert.Equal(t, "p b\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-feats", path, "-vocoids"}, &out, &bytes.Buffer{}))
	assert.Equal(t, "a\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-feats", path, "-describe", "p a"}, &out, &bytes.Buffer{}))
	assert.Equal(t, "p\t[-voice]\na\t[+syll]\n", out.String())
}

func TestCheck(t *testing.T) {
	path := writeFeatures(t, "\tcons\tson\tvoice\nt\t+\t-\t0\nd\t+\t-\t+\n")
	var out bytes.Buffer
	err := run([]string{"-feats", path, "-check"}, &out, &bytes.Buffer{})
	var amb *natclass.AmbiguousTableError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, "t has a subset of the features of d\n", out.String())

	require.NoError(t, run([]string{"-feats", writeFeatures(t, table), "-check"}, &out, &bytes.Buffer{}))
}

func TestMissingFeats(t *testing.T) {
	assert.Error(t, run(nil, &bytes.Buffer{}, &bytes.Buffer{}))
}
