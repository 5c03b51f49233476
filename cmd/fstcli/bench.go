package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gomlx/go-fst-tokenizer/fstbpe"
	"github.com/gomlx/go-fst-tokenizer/models/vocabfile"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <vocab-file> <parquet-file> <column>",
		Short: "Run the segmentation core over a Parquet text corpus and report throughput",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(args[0], args[1], args[2])
		},
	}
	return cmd
}

func runBench(vocabPath, parquetPath, column string) error {
	reader, err := vocabfile.Open(vocabPath)
	if err != nil {
		return errors.Wrapf(err, "opening %q", vocabPath)
	}
	defer reader.Close()

	tbl, _, unkID, err := vocabfile.Load[byte](reader)
	if err != nil {
		return errors.Wrap(err, "loading compiled vocabulary")
	}

	proc := &fstbpe.Processor[byte]{}
	if err := proc.SetConf(fstbpe.Config[byte]{Facade: tbl}); err != nil {
		return errors.Wrap(err, "configuring segmentation core")
	}

	rows, colIndex, closeFile, err := openCorpusColumn(parquetPath, column)
	if err != nil {
		return err
	}
	defer closeFile()

	var rowCount int
	var byteCount, tokenCount int64
	out := make([]int32, 4096)
	start := time.Now()

	buf := make([]parquet.Row, 64)
	for {
		n, readErr := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			text := buf[i][colIndex].String()
			in := []byte(text)

			written, err := proc.Process(in, out, unkID)
			if err != nil {
				return errors.Wrapf(err, "segmenting row %d", rowCount)
			}
			if written > len(out) {
				out = make([]int32, written)
				written, err = proc.Process(in, out, unkID)
				if err != nil {
					return errors.Wrapf(err, "segmenting row %d (retry)", rowCount)
				}
			}

			rowCount++
			byteCount += int64(len(in))
			tokenCount += int64(written / 3)
		}
		if readErr != nil {
			break
		}
	}

	elapsed := time.Since(start)
	klog.InfoS("bench complete", "invocation", invocationID,
		"rows", rowCount, "bytes", byteCount, "tokens", tokenCount, "elapsed", elapsed.String())
	fmt.Printf("rows=%d bytes=%d tokens=%d elapsed=%s throughput=%.1f MB/s\n",
		rowCount, byteCount, tokenCount, elapsed,
		float64(byteCount)/1e6/elapsed.Seconds())
	return nil
}

// openCorpusColumn opens a Parquet file and resolves column to a leaf
// column index in its schema, returning a row reader positioned at the
// start of the file.
func openCorpusColumn(path, column string) (*parquet.Reader, int, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, errors.Wrapf(err, "opening %q", path)
	}

	pf, err := parquet.OpenFile(f, mustStat(f))
	if err != nil {
		f.Close()
		return nil, 0, nil, errors.Wrapf(err, "reading parquet metadata for %q", path)
	}

	leaf, ok := pf.Schema().Lookup(column)
	if !ok {
		f.Close()
		return nil, 0, nil, errors.Errorf("column %q not found in %q", column, path)
	}

	reader := parquet.NewReader(pf)
	return reader, leaf.ColumnIndex, func() error {
		reader.Close()
		return f.Close()
	}, nil
}

func mustStat(f *os.File) int64 {
	info, err := f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}
