// Package emit implements the emitter sink contract: a byte
// stream consumer for the two fixed output formats ("line" and "json"),
// grounded in internal/writer/writer.go's channel-buffered jsoniter encoder.
package emit

import (
	"bufio"
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var marshaller = jsoniter.ConfigFastest

// Sink serializes vertex/edge values and writes them to an underlying byte
// stream. Graph-side code (the indexer package's Emitter, the indexing driver) only depends on this
// interface, never on a concrete format.
type Sink interface {
	// Write queues a single vertex or edge value for serialization.
	Write(v interface{})
	// Flush drains any queued values and returns the first write error seen,
	// if any.
	Flush() error
}

// channelBufferSize bounds how many pending elements may queue behind the
// encoder goroutine before Write blocks.
const channelBufferSize = 512

// writerBufferSize is the buffered-writer size wrapping the destination.
const writerBufferSize = 4096

// lineSink implements the "line" format: one JSON object per element, one
// per line, no surrounding brackets, no trailing comma.
type lineSink struct {
	wg  sync.WaitGroup
	ch  chan interface{}
	bw  *bufio.Writer
	err error
}

var _ Sink = (*lineSink)(nil)

// NewLineSink returns a Sink writing newline-delimited JSON to w.
func NewLineSink(w io.Writer) Sink {
	s := &lineSink{
		ch: make(chan interface{}, channelBufferSize),
		bw: bufio.NewWriterSize(w, writerBufferSize),
	}

	encoder := marshaller.NewEncoder(s.bw)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for v := range s.ch {
			if s.err != nil {
				continue
			}
			if err := encoder.Encode(v); err != nil {
				s.err = errors.Wrap(err, "encode element")
			}
		}
	}()

	return s
}

func (s *lineSink) Write(v interface{}) { s.ch <- v }

func (s *lineSink) Flush() error {
	close(s.ch)
	s.wg.Wait()

	if s.err != nil {
		return s.err
	}
	return errors.Wrap(s.bw.Flush(), "flush line sink")
}

// jsonArraySink implements the "json" format: a single JSON array, one
// element per line indented by one tab, comma+newline between elements, and
// a final bare `]` line.
type jsonArraySink struct {
	wg      sync.WaitGroup
	ch      chan interface{}
	bw      *bufio.Writer
	err     error
	started bool
}

var _ Sink = (*jsonArraySink)(nil)

// NewJSONArraySink returns a Sink writing a single bracketed, tab-indented
// JSON array to w.
func NewJSONArraySink(w io.Writer) Sink {
	s := &jsonArraySink{
		ch: make(chan interface{}, channelBufferSize),
		bw: bufio.NewWriterSize(w, writerBufferSize),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if _, err := s.bw.WriteString("[\n"); err != nil {
			s.err = errors.Wrap(err, "write array open")
			return
		}

		for v := range s.ch {
			if s.err != nil {
				continue
			}

			encoded, err := marshaller.Marshal(v)
			if err != nil {
				s.err = errors.Wrap(err, "encode element")
				continue
			}

			if s.started {
				if _, err := s.bw.WriteString(",\n"); err != nil {
					s.err = errors.Wrap(err, "write separator")
					continue
				}
			}
			s.started = true

			if _, err := s.bw.WriteString("\t"); err != nil {
				s.err = errors.Wrap(err, "write indent")
				continue
			}
			if _, err := s.bw.Write(encoded); err != nil {
				s.err = errors.Wrap(err, "write element")
				continue
			}
		}
	}()

	return s
}

func (s *jsonArraySink) Write(v interface{}) { s.ch <- v }

func (s *jsonArraySink) Flush() error {
	close(s.ch)
	s.wg.Wait()

	if s.err != nil {
		return s.err
	}

	if s.started {
		if _, err := s.bw.WriteString("\n"); err != nil {
			return errors.Wrap(err, "write closing newline")
		}
	}
	if _, err := s.bw.WriteString("]\n"); err != nil {
		return errors.Wrap(err, "write array close")
	}
	return errors.Wrap(s.bw.Flush(), "flush json array sink")
}
