package reads

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shenwei356/bio/seqio/fastx"
)

type fastxOptions struct {
	upperCase bool
	minLength int
}

type FastxOption func(*fastxOptions)

// WithUpperCase folds soft-masked (lower case) bases to upper case.
func WithUpperCase() FastxOption {
	return func(o *fastxOptions) {
		o.upperCase = true
	}
}

// WithMinLength drops records shorter than n bases. Dropped records do not
// consume an id.
func WithMinLength(n int) FastxOption {
	return func(o *fastxOptions) {
		o.minLength = n
	}
}

// FastxConfig holds the reader settings that may come from a config file.
type FastxConfig struct {
	UpperCase bool `toml:"upper_case"`
	MinLength int  `toml:"min_length"`
}

// Options returns the FastxOptions equivalent to c.
func (c FastxConfig) Options() []FastxOption {
	var opts []FastxOption
	if c.UpperCase {
		opts = append(opts, WithUpperCase())
	}
	if c.MinLength > 0 {
		opts = append(opts, WithMinLength(c.MinLength))
	}
	return opts
}

// FastxSource reads FASTA or FASTQ files (optionally compressed) in order,
// numbering records across all files from 0. "-" reads stdin.
type FastxSource struct {
	opts   fastxOptions
	files  []string
	next   int
	cur    *fastx.Reader
	curFn  string
	nextID uint32
}

func OpenFastx(files []string, opts ...FastxOption) (*FastxSource, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}
	s := &FastxSource{files: files}
	for _, o := range opts {
		o(&s.opts)
	}
	// open the first file now so a bad path fails before any work is queued
	if err := s.openNext(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FastxSource) openNext() error {
	fn := s.files[s.next]
	r, err := fastx.NewReader(nil, fn, "")
	if err != nil {
		return fmt.Errorf("reads: open %s: %w", fn, err)
	}
	s.cur, s.curFn = r, fn
	s.next++
	return nil
}

func (s *FastxSource) Next() (Read, error) {
	for {
		if s.cur == nil {
			if s.next >= len(s.files) {
				return Read{}, io.EOF
			}
			if err := s.openNext(); err != nil {
				return Read{}, err
			}
		}

		record, err := s.cur.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.cur.Close()
				s.cur = nil
				continue
			}
			return Read{}, fmt.Errorf("reads: %s: %w", s.curFn, err)
		}
		if len(record.Seq.Seq) < s.opts.minLength {
			continue
		}

		// the reader reuses its record buffers
		var seq []byte
		if s.opts.upperCase {
			seq = bytes.ToUpper(record.Seq.Seq)
		} else {
			seq = bytes.Clone(record.Seq.Seq)
		}
		r := Read{ID: s.nextID, Name: string(record.ID), Seq: seq}
		s.nextID++
		return r, nil
	}
}

// Close releases the current file, if any.
func (s *FastxSource) Close() {
	if s.cur != nil {
		s.cur.Close()
		s.cur = nil
	}
}
