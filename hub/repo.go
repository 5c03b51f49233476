// Package hub fetches compiled vocabulary blobs (models/vocabfile
// containers) from a remote repository into a local cache directory keyed
// by file name, coordinating concurrent downloaders with a file lock.
//
// Adapted from the teacher's HuggingFace Hub client: the same
// download-to-temp-then-atomically-rename mechanics and cross-process
// flock, retargeted from arbitrary model repo files to vocabulary blobs.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomlx/go-fst-tokenizer/internal/downloader"
	"github.com/gomlx/go-fst-tokenizer/internal/files"
	"github.com/pkg/errors"
)

// DefaultDirCreationPerm is the permission used when creating cache
// directories.
const DefaultDirCreationPerm = 0755

// DefaultBaseURL is the default root under which repositories are resolved:
// BaseURL/<repoName>/resolve/<revision>/<filename>.
const DefaultBaseURL = "https://fst-tokenizer-hub.example.org"

// DefaultRevision is used when a Repo is not given an explicit revision.
const DefaultRevision = "main"

// Repo represents a named, versioned collection of vocabulary blobs
// (typically one compiled automaton plus its sidecar files) served over
// HTTP and cached locally.
type Repo struct {
	Name    string
	BaseURL string
	Revision string

	authToken           string
	cacheDir            string
	MaxParallelDownload int

	downloadManager *downloader.Manager
}

// New creates a Repo for name (e.g. "org/vocab-en-32k"), using
// DefaultBaseURL, DefaultRevision, and a cache directory under the user's
// cache dir.
func New(name string) *Repo {
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		cacheRoot = os.TempDir()
	}
	return &Repo{
		Name:                name,
		BaseURL:             DefaultBaseURL,
		Revision:            DefaultRevision,
		cacheDir:            filepath.Join(cacheRoot, "fst-tokenizer", "hub", filepath.FromSlash(name)),
		MaxParallelDownload: 4,
	}
}

// WithAuth attaches a bearer token used for every request against this
// Repo. Calling it with an empty token is a no-op, so a missing
// environment variable can be passed through directly.
func (r *Repo) WithAuth(token string) *Repo {
	if token != "" {
		r.authToken = token
	}
	return r
}

// WithRevision overrides the revision (tag, branch, or commit) resolved.
func (r *Repo) WithRevision(revision string) *Repo {
	r.Revision = revision
	return r
}

// WithCacheDir overrides the local cache directory.
func (r *Repo) WithCacheDir(dir string) *Repo {
	r.cacheDir = dir
	return r
}

func (r *Repo) fileURL(filename string) string {
	return fmt.Sprintf("%s/%s/resolve/%s/%s", r.BaseURL, r.Name, r.Revision, filename)
}

func (r *Repo) localPath(filename string) string {
	return filepath.Join(r.cacheDir, filepath.FromSlash(filename))
}

// HasFile reports whether filename is already present in the local cache,
// without contacting the remote repository.
func (r *Repo) HasFile(filename string) bool {
	return files.Exists(r.localPath(filename))
}

// DownloadFile ensures filename is present in the local cache, downloading
// it if necessary, and returns its local path.
func (r *Repo) DownloadFile(filename string) (string, error) {
	localPath := r.localPath(filename)
	err := r.lockedDownload(context.Background(), r.fileURL(filename), localPath, false, nil)
	if err != nil {
		return "", err
	}
	return localPath, nil
}

// manifest lists the files a Repo advertises, fetched from
// "<repo>/resolve/<revision>/manifest.json" the first time IterFileNames
// needs it.
type manifest struct {
	Files []string `json:"files"`
}

// IterFileNames iterates over every filename the repository's manifest
// advertises.
func (r *Repo) IterFileNames() func(yield func(string, error) bool) {
	return func(yield func(string, error) bool) {
		manifestPath, err := r.DownloadFile("manifest.json")
		if err != nil {
			yield("", errors.Wrap(err, "fetching repository manifest"))
			return
		}
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			yield("", errors.Wrapf(err, "reading %q", manifestPath))
			return
		}
		var m manifest
		if err := json.Unmarshal(data, &m); err != nil {
			yield("", errors.Wrap(err, "parsing repository manifest"))
			return
		}
		for _, name := range m.Files {
			if !yield(name, nil) {
				return
			}
		}
	}
}
