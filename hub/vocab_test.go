package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomlx/go-fst-tokenizer/automaton"
	"github.com/gomlx/go-fst-tokenizer/models/vocabfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepoServer serves a single compiled vocabulary blob plus manifest
// under /<name>/resolve/<revision>/<file>, mirroring the URL shape Repo
// builds.
func newTestRepoServer(t *testing.T, name, revision string, files map[string][]byte) *httptest.Server {
	t.Helper()
	prefix := "/" + name + "/resolve/" + revision + "/"
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		filename := strings.TrimPrefix(req.URL.Path, prefix)
		data, ok := files[filename]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Write(data)
	}))
}

func buildToyVocabBlob(t *testing.T) []byte {
	t.Helper()
	entries := []automaton.Entry[byte]{
		{Token: []byte("a"), ID: 5},
		{Token: []byte("ab"), ID: 3},
	}
	tbl, err := automaton.Compile(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vocab.fst")
	require.NoError(t, vocabfile.Write(path, tbl, entries, 99))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestRepoOpenVocabularyDownloadsAndCaches(t *testing.T) {
	blob := buildToyVocabBlob(t)
	manifest, err := json.Marshal(struct {
		Files []string `json:"files"`
	}{Files: []string{VocabFileName}})
	require.NoError(t, err)

	srv := newTestRepoServer(t, "org/toy-vocab", DefaultRevision, map[string][]byte{
		VocabFileName:    blob,
		"manifest.json": manifest,
	})
	defer srv.Close()

	repo := New("org/toy-vocab").WithCacheDir(t.TempDir())
	repo.BaseURL = srv.URL

	assert.False(t, repo.HasFile(VocabFileName))

	reader, err := repo.OpenVocabulary()
	require.NoError(t, err)
	defer reader.Close()

	assert.True(t, repo.HasFile(VocabFileName))

	unkID, err := reader.UnkID()
	require.NoError(t, err)
	assert.EqualValues(t, 99, unkID)

	// Second call should be served from the local cache without hitting
	// the (now-closed-to-new-state) server again.
	reader2, err := repo.OpenVocabulary()
	require.NoError(t, err)
	defer reader2.Close()
}

func TestRepoIterFileNames(t *testing.T) {
	blob := buildToyVocabBlob(t)
	manifest, err := json.Marshal(struct {
		Files []string `json:"files"`
	}{Files: []string{VocabFileName, "README.md"}})
	require.NoError(t, err)

	srv := newTestRepoServer(t, "org/toy-vocab", DefaultRevision, map[string][]byte{
		VocabFileName:    blob,
		"manifest.json": manifest,
	})
	defer srv.Close()

	repo := New("org/toy-vocab").WithCacheDir(t.TempDir())
	repo.BaseURL = srv.URL

	var names []string
	for name, err := range repo.IterFileNames() {
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{VocabFileName, "README.md"}, names)
}
