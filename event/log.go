package event

import (
	"bufio"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/oomph-ac/blocksim/oerror"
)

// LogWriter is a Handler that appends every event to a zstd compressed stream of encoded events. Write
// errors are sticky: after the first failure further events are dropped and the error is kept for Err.
type LogWriter struct {
	mu  sync.Mutex
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// NewLogWriter returns a LogWriter writing to w. Close must be called to flush the stream.
func NewLogWriter(w io.Writer) (*LogWriter, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, oerror.New("create zstd writer: %v", err)
	}
	return &LogWriter{enc: enc, w: bufio.NewWriter(enc)}, nil
}

func (l *LogWriter) HandleEvent(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return
	}
	if _, err := l.w.Write(Encode(ev)); err != nil {
		l.err = err
	}
}

// Err returns the first write error encountered, if any.
func (l *LogWriter) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close flushes buffered events and finishes the zstd frame. It does not close the underlying writer.
func (l *LogWriter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil && l.err == nil {
		l.err = err
	}
	if err := l.enc.Close(); err != nil && l.err == nil {
		l.err = err
	}
	return l.err
}

// ReadLog decodes every event of a stream written by a LogWriter.
func ReadLog(r io.Reader) ([]Event, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, oerror.New("create zstd reader: %v", err)
	}
	defer dec.Close()

	dat, err := io.ReadAll(dec)
	if err != nil {
		return nil, oerror.New("read event log: %v", err)
	}
	return DecodeEvents(dat)
}
