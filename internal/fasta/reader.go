// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one target sequence to design guides against.
type Record struct {
	ID  string
	Seq []byte
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openReader handles gzip and "-" (stdin) transparently.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// Detect gzip by magic number (1F 8B) or by .gz suffix.
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	_, _ = fh.Seek(0, io.SeekStart)
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// ReadTargets parses target sequences from r. Input starting with '>' is
// FASTA (one Record per entry); anything else is treated as a single bare
// sequence with id "target". Sequence bytes are kept raw; validation
// happens downstream.
func ReadTargets(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		recs    []Record
		id      string
		seq     = make([]byte, 0, 1<<16)
		isFasta bool
		first   = true
	)

	flush := func() {
		if id == "" && len(seq) == 0 {
			return
		}
		recs = append(recs, Record{ID: id, Seq: append([]byte(nil), seq...)})
		seq = seq[:0]
	}

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if first {
			isFasta = line[0] == '>'
			if !isFasta {
				id = "target"
			}
			first = false
		}
		if isFasta && line[0] == '>' {
			flush()
			id = parseHeaderID(line[1:])
			continue
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("target scan: %w", err)
	}
	flush()
	if len(recs) == 0 {
		return nil, fmt.Errorf("no target sequence found")
	}
	return recs, nil
}

// ReadTargetsPath opens path (plain, gzip, or "-" for stdin) and parses it.
func ReadTargetsPath(path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadTargets(rc)
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
