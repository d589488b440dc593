// Package reads supplies sequencing reads, as (id, sequence) pairs, to graph
// construction.
package reads

import (
	"errors"
	"io"
)

var ErrNoInput = errors.New("reads: no input files")

// Read is a single sequencing read. ID is the provenance id recorded by graph
// nodes; sources assign them densely from 0.
type Read struct {
	ID   uint32
	Name string
	Seq  []byte
}

// Source yields reads until it returns io.EOF.
type Source interface {
	Next() (Read, error)
}

// SliceSource serves reads from memory.
type SliceSource struct {
	reads []Read
	next  int
}

// NewSliceSource numbers seqs 0..len(seqs)-1.
func NewSliceSource(seqs ...string) *SliceSource {
	rs := make([]Read, len(seqs))
	for i, s := range seqs {
		rs[i] = Read{ID: uint32(i), Seq: []byte(s)}
	}
	return &SliceSource{reads: rs}
}

// NewRecordSource serves rs as given, keeping their ids.
func NewRecordSource(rs []Read) *SliceSource {
	return &SliceSource{reads: rs}
}

func (s *SliceSource) Next() (Read, error) {
	if s.next >= len(s.reads) {
		return Read{}, io.EOF
	}
	r := s.reads[s.next]
	s.next++
	return r, nil
}

// Collect drains src.
func Collect(src Source) ([]Read, error) {
	var out []Read
	for {
		r, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
}
