package hub

import (
	"github.com/gomlx/go-fst-tokenizer/models/vocabfile"
	"github.com/pkg/errors"
)

// VocabFileName is the canonical filename a Repo is expected to serve for
// its compiled vocabulary blob.
const VocabFileName = "vocab.fst"

// OpenVocabulary downloads (if not already cached) and opens this Repo's
// compiled vocabulary blob for byte-level tokenization.
//
// Grounded on the teacher's Repo.LoadSafetensor/LoadModel shape: download
// through the cache, then hand the local path to the format-specific
// reader -- here vocabfile.Open instead of a safetensors header parse.
func (r *Repo) OpenVocabulary() (*vocabfile.Reader, error) {
	localPath, err := r.DownloadFile(VocabFileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download %s", VocabFileName)
	}

	reader, err := vocabfile.Open(localPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open compiled vocabulary %s", localPath)
	}
	return reader, nil
}
