package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/ieee0824/compseg-go/features"
	"github.com/ieee0824/compseg-go/learner"
	"github.com/ieee0824/compseg-go/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeTable = "\tsyll\tcons\tson\tcont\tlab\tdor\tcor\n" +
	"p\t-\t+\t-\t-\t+\t-\t-\n" +
	"t\t-\t+\t-\t-\t-\t-\t+\n" +
	"k\t-\t+\t-\t-\t-\t+\t-\n" +
	"a\t+\t-\t+\t+\t-\t+\t-\n"

func runWith(t *testing.T, e *Exporter) *learner.Result {
	t.Helper()
	tab, err := features.Load(strings.NewReader(placeTable))
	require.NoError(t, err)
	var lines []string
	for range 5 {
		lines = append(lines, "p a t a", "k p a")
	}
	res, err := learner.Run(context.Background(), corpus.FromStrings(lines...), tab,
		learner.DefaultConfig(), learner.WithObserver(e))
	require.NoError(t, err)
	require.NoError(t, e.Final(context.Background(), res))
	return res
}

func TestExporterArtifacts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	runWith(t, NewExporter(store))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Features.txt",
		"LearningData.txt",
		"iteration1/Features.txt",
		"iteration1/LearningData.txt",
		"iteration1/inseparability.txt",
	}, names)

	report, err := store.Get(ctx, "iteration1/inseparability.txt")
	require.NoError(t, err)
	rows, err := stats.ReadReport(bytes.NewReader(report))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "k", rows[0].First)
	assert.Equal(t, 8.0, rows[0].Inseparability)
	assert.Equal(t, []string{"+cons", "+dor"}, rows[0].FirstClass)

	data, err := store.Get(ctx, "LearningData.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "p a t a\nkp a\n"))

	feats, err := store.Get(ctx, "Features.txt")
	require.NoError(t, err)
	tab, err := features.Load(bytes.NewReader(feats))
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "t", "a", "kp"}, tab.Symbols())
}

func TestExporterCompression(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	runWith(t, NewExporter(store, WithCompression(corpus.CompressionZSTD)))

	raw, err := store.Get(ctx, "iteration1/LearningData.txt.zst")
	require.NoError(t, err)
	c, err := corpus.LoadCompressed(bytes.NewReader(raw), corpus.CompressionZSTD)
	require.NoError(t, err)
	assert.Equal(t, "kp a", c.Strings()[1])
}

func TestExporterClean(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "iteration7/Features.txt", []byte("x")))
	require.NoError(t, store.Put(ctx, "LearningData.txt.lz4", []byte("x")))
	require.NoError(t, store.Put(ctx, RunLogFile, []byte("log")))
	require.NoError(t, store.Put(ctx, "notes/Features.txt", []byte("keep")))

	require.NoError(t, NewExporter(store).Clean(ctx))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/Features.txt", RunLogFile}, names)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "simulation")
	s := NewLocalStore(dir)

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Put(ctx, "iteration1/LearningData.txt", []byte("a b\n")))
	require.NoError(t, s.Put(ctx, "iteration1/LearningData.txt", []byte("ab\n")))
	require.NoError(t, s.Put(ctx, "Features.txt", []byte("\tx\n")))

	data, err := s.Get(ctx, "iteration1/LearningData.txt")
	require.NoError(t, err)
	assert.Equal(t, "ab\n", string(data))
	onDisk, err := os.ReadFile(filepath.Join(dir, "iteration1", "LearningData.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ab\n", string(onDisk))

	names, err = s.List(ctx, "iteration")
	require.NoError(t, err)
	assert.Equal(t, []string{"iteration1/LearningData.txt"}, names)

	require.NoError(t, s.Delete(ctx, "iteration1/LearningData.txt"))
	require.NoError(t, s.Delete(ctx, "iteration1/LearningData.txt"))
	_, err = os.Stat(filepath.Join(dir, "iteration1"))
	assert.True(t, os.IsNotExist(err), "empty iteration directory removed")

	_, err = s.Get(ctx, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreExporter(t *testing.T) {
	dir := t.TempDir()
	runWith(t, NewExporter(NewLocalStore(dir)))

	for _, name := range []string{"Features.txt", "LearningData.txt", "iteration1/inseparability.txt"} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "iteration2"))
	assert.True(t, os.IsNotExist(err), "converging iteration with no clusters writes nothing")
}

type failingStore struct{ *MemoryStore }

func (f *failingStore) Put(context.Context, string, []byte) error { return errors.New("quota") }

func TestMirror(t *testing.T) {
	ctx := context.Background()
	a, b := NewMemoryStore(), NewMemoryStore()
	m := Mirror{a, b}

	require.NoError(t, m.Put(ctx, "x.txt", []byte("1")))
	for _, s := range []Store{a, b} {
		data, err := s.Get(ctx, "x.txt")
		require.NoError(t, err)
		assert.Equal(t, "1", string(data))
	}
	names, err := m.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"x.txt"}, names)

	require.NoError(t, m.Delete(ctx, "x.txt"))
	_, err = b.Get(ctx, "x.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	bad := Mirror{a, &failingStore{NewMemoryStore()}}
	assert.EqualError(t, bad.Put(ctx, "y.txt", nil), "quota")

	_, err = Mirror{}.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", buf))
	buf[0] = 'z'
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
