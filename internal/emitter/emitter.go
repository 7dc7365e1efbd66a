// Package emitter streams file records as the elements of one JSON array.
package emitter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/IvanShishkin/unixfiles/pkg/models"
)

var (
	// ErrNotStarted is returned by Write and End before Begin
	ErrNotStarted = errors.New("emitter: array not opened")
	// ErrClosed is returned by every call after End
	ErrClosed = errors.New("emitter: array already closed")
)

type state int

const (
	stateNew state = iota
	stateOpen
	stateClosed
)

// Emitter writes records into a JSON array whose length is never known up
// front. Nothing but the current record is held in memory. The first write
// error is returned by every later call.
type Emitter struct {
	out       *bufio.Writer
	buf       bytes.Buffer
	enc       *json.Encoder
	state     state
	count     int
	flushEach bool
	err       error
}

// New creates an emitter writing to w
func New(w io.Writer) *Emitter {
	e := &Emitter{out: bufio.NewWriter(w)}
	e.enc = json.NewEncoder(&e.buf)
	e.enc.SetEscapeHTML(false)
	return e
}

// SetFlushEach makes every Write flush the record to the underlying writer
func (e *Emitter) SetFlushEach(flush bool) {
	e.flushEach = flush
}

// Count returns the number of records written
func (e *Emitter) Count() int {
	return e.count
}

// Begin opens the array
func (e *Emitter) Begin() error {
	if e.err != nil {
		return e.err
	}
	if e.state != stateNew {
		return fmt.Errorf("emitter: begin called twice")
	}
	e.state = stateOpen
	return e.write([]byte("["))
}

// Write appends one record to the array
func (e *Emitter) Write(record *models.FileRecord) error {
	if e.err != nil {
		return e.err
	}
	switch e.state {
	case stateNew:
		return ErrNotStarted
	case stateClosed:
		return ErrClosed
	}

	e.buf.Reset()
	if err := e.enc.Encode(record); err != nil {
		return fmt.Errorf("emitter: encode %q: %w", record.File, err)
	}
	data := bytes.TrimSuffix(e.buf.Bytes(), []byte("\n"))

	sep := []byte("\n")
	if e.count > 0 {
		sep = []byte(",\n")
	}
	if err := e.write(sep); err != nil {
		return err
	}
	if err := e.write(data); err != nil {
		return err
	}
	e.count++

	if e.flushEach {
		return e.flush()
	}
	return nil
}

// End closes the array and flushes everything to the underlying writer
func (e *Emitter) End() error {
	if e.err != nil {
		return e.err
	}
	switch e.state {
	case stateNew:
		return ErrNotStarted
	case stateClosed:
		return ErrClosed
	}
	e.state = stateClosed

	closing := []byte("]\n")
	if e.count > 0 {
		closing = []byte("\n]\n")
	}
	if err := e.write(closing); err != nil {
		return err
	}
	return e.flush()
}

func (e *Emitter) write(p []byte) error {
	if _, err := e.out.Write(p); err != nil {
		e.err = fmt.Errorf("emitter: write: %w", err)
		return e.err
	}
	return nil
}

func (e *Emitter) flush() error {
	if err := e.out.Flush(); err != nil {
		e.err = fmt.Errorf("emitter: flush: %w", err)
		return e.err
	}
	return nil
}
