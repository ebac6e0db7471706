package machine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starscript/internal/scripting/number"
	"starscript/internal/scripting/value"
)

func TestCaseInsensitiveNames(t *testing.T) {
	s := New()
	s.Set("Speed", value.NewNumber(number.FromInt(7)))

	assert.Equal(t, value.NewNumber(number.FromInt(7)), s.Get("speed"))
	assert.Equal(t, value.NewNumber(number.FromInt(7)), s.Get("SPEED"))
	assert.True(t, s.Exists("sPeEd"))
	assert.Equal(t, 1, s.Count())
}

func TestUnassignedReadsAsZero(t *testing.T) {
	s := New()
	assert.Equal(t, value.NewNumber(number.Zero), s.Get("nothing"))
	assert.False(t, s.Exists("nothing"))
}

func TestGlobalNamespace(t *testing.T) {
	s := New()
	s.Set(":shared", value.NewString("g"))
	s.Set("local", value.NewString("l"))

	assert.True(t, IsGlobal(":shared"))
	assert.False(t, IsGlobal("local"))

	globals := s.Globals()
	require.Len(t, globals, 1)
	assert.Equal(t, value.NewString("g"), globals[":shared"])
}

func TestNamesSorted(t *testing.T) {
	s := New()
	s.Set("b", value.NewNumber(number.One))
	s.Set("A", value.NewNumber(number.One))
	s.Set(":c", value.NewNumber(number.One))

	assert.Equal(t, []string{":c", "a", "b"}, s.Names())
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Set("x", value.NewNumber(number.One))

	c := s.Clone()
	c.Set("x", value.NewNumber(number.FromInt(2)))
	c.Set("y", value.NewString("only in clone"))

	assert.Equal(t, value.NewNumber(number.One), s.Get("x"))
	assert.False(t, s.Exists("y"))
}

func TestDelete(t *testing.T) {
	s := New()
	s.Set("x", value.NewNumber(number.One))
	s.Delete("X")
	assert.False(t, s.Exists("x"))
}

// fakeStore records persisted globals in memory.
type fakeStore struct {
	saved map[string]value.Value
	fail  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]value.Value)}
}

func (f *fakeStore) SaveVariable(name string, v value.Value) error {
	if f.fail {
		return errors.New("store unavailable")
	}
	f.saved[name] = v
	return nil
}

func (f *fakeStore) LoadAll() (map[string]value.Value, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	out := make(map[string]value.Value, len(f.saved))
	for k, v := range f.saved {
		out[k] = v
	}
	return out, nil
}

func TestStoreRoundTrip(t *testing.T) {
	store := newFakeStore()

	s, err := NewWithStore(store)
	require.NoError(t, err)

	s.Set(":score", value.NewNumber(number.FromRaw(1500)))
	s.Set("scratch", value.NewNumber(number.One))

	// Only the global went to the store.
	require.Len(t, store.saved, 1)
	assert.Equal(t, value.NewNumber(number.FromRaw(1500)), store.saved[":score"])

	// A fresh state sees the persisted global.
	restored, err := NewWithStore(store)
	require.NoError(t, err)
	assert.Equal(t, value.NewNumber(number.FromRaw(1500)), restored.Get(":SCORE"))
	assert.False(t, restored.Exists("scratch"))
}

func TestStoreFailureDoesNotLoseAssignment(t *testing.T) {
	store := newFakeStore()
	s, err := NewWithStore(store)
	require.NoError(t, err)

	store.fail = true
	s.Set(":x", value.NewString("kept"))
	assert.Equal(t, value.NewString("kept"), s.Get(":x"))
}

func TestLoadFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	_, err := NewWithStore(store)
	assert.Error(t, err)
}
