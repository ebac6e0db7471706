package database

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "vars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadVariable(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveVariable(":n", value.NewNumber(number.FromRaw(1500))))
	require.NoError(t, store.SaveVariable(":s", value.NewString("hello")))

	n, ok, err := store.LoadVariable(":n")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.NewNumber(number.FromRaw(1500)), n)

	s, ok, err := store.LoadVariable(":s")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.NewString("hello"), s)

	_, ok, err = store.LoadVariable(":missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNumbersPersistBitExact(t *testing.T) {
	store := openTestStore(t)

	for _, raw := range []int64{0, 1, -1, 333, math.MaxInt64, math.MinInt64} {
		require.NoError(t, store.SaveVariable(":x", value.NewNumber(number.FromRaw(raw))))
		v, ok, err := store.LoadVariable(":x")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, raw, v.Number().Raw())
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveVariable(":x", value.NewNumber(number.One)))
	require.NoError(t, store.SaveVariable(":x", value.NewString("now a string")))

	v, ok, err := store.LoadVariable(":x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.NewString("now a string"), v)
}

func TestLoadAllAndSaveState(t *testing.T) {
	store := openTestStore(t)

	vars := map[string]value.Value{
		":a": value.NewNumber(number.FromRaw(-1)),
		":b": value.NewString(""),
		":c": value.NewString("c"),
	}
	require.NoError(t, store.SaveState(vars))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, vars, loaded)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vars.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveVariable(":kept", value.NewNumber(number.FromInt(42))))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	v, ok, err := store.LoadVariable(":kept")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.NewNumber(number.FromInt(42)), v)
}
