package credential

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	s := NewFileStore(path)

	_, ok, err := s.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok, "missing file means empty store")

	require.NoError(t, s.Set(TokenKey, "pat-1"))

	v, ok, err := s.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pat-1", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second store on the same file sees the value
	v, ok, err = NewFileStore(path).Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pat-1", v)
}

func TestFileStore_Delete(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewFileStore(path)

	require.NoError(t, s.Delete(TokenKey), "deleting from empty store")

	require.NoError(t, s.Set(TokenKey, "pat"))
	require.NoError(t, s.Set("other", "x"))
	require.NoError(t, s.Delete(TokenKey))

	_, ok, err := s.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := s.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	require.NoError(t, s.Delete("other"))
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "file removed once empty")
}

func TestFileStore_Corrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, _, err := NewFileStore(path).Get(TokenKey)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	seed := map[string]string{TokenKey: "seed"}
	m := NewMemoryStore(seed)
	seed[TokenKey] = "mutated"

	v, ok, err := m.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "seed", v)

	require.NoError(t, m.Delete(TokenKey))
	_, ok, _ = m.Get(TokenKey)
	assert.False(t, ok)
}

type countingPrompter struct {
	answer string
	err    error
	calls  int
	hints  []string
}

func (p *countingPrompter) Prompt(_ context.Context, hint string) (string, error) {
	p.calls++
	p.hints = append(p.hints, hint)
	return p.answer, p.err
}

func TestResolver_Cached(t *testing.T) {
	t.Parallel()
	p := &countingPrompter{answer: "unused"}
	r := NewResolver(NewMemoryStore(map[string]string{TokenKey: "cached"}), p)

	tok, ok, err := r.Token(context.Background(), ScopeWorkflow)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached", tok)
	assert.Zero(t, p.calls, "cached token is reused whatever the scope")
}

func TestResolver_PromptsAndPersists(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore(nil)
	p := &countingPrompter{answer: "  fresh  "}
	r := NewResolver(store, p)

	tok, ok, err := r.Token(context.Background(), ScopeRepo)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", tok)
	assert.Equal(t, []string{"public_repo"}, p.hints)

	saved, found, _ := store.Get(TokenKey)
	assert.True(t, found)
	assert.Equal(t, "fresh", saved)

	// Second lookup hits the cache
	_, _, err = r.Token(context.Background(), ScopeRepo)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestResolver_Declined(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prompter Prompter
	}{
		{name: "empty answer", prompter: &countingPrompter{answer: ""}},
		{name: "whitespace answer", prompter: &countingPrompter{answer: "   "}},
		{name: "no prompter", prompter: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(nil)
			r := NewResolver(store, tt.prompter)

			tok, ok, err := r.Token(context.Background(), ScopeRepo)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, tok)

			_, found, _ := store.Get(TokenKey)
			assert.False(t, found, "nothing persisted")
		})
	}
}

func TestResolver_EmptyCachedValuePrompts(t *testing.T) {
	t.Parallel()
	p := &countingPrompter{answer: "new"}
	r := NewResolver(NewMemoryStore(map[string]string{TokenKey: ""}), p)

	tok, ok, err := r.Token(context.Background(), ScopeRepo)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", tok)
	assert.Equal(t, 1, p.calls)
}

func TestResolver_PromptError(t *testing.T) {
	t.Parallel()
	r := NewResolver(NewMemoryStore(nil), &countingPrompter{err: errors.New("no tty")})

	_, ok, err := r.Token(context.Background(), ScopeRepo)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPromptText(t *testing.T) {
	t.Parallel()
	assert.Contains(t, PromptText("workflow"), "'workflow' scope")
}
