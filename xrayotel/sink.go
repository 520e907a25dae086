package xrayotel

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Sink receives finished segment documents. WriteSegment may be called
// from multiple goroutines. The document must not be retained after
// WriteSegment returns.
type Sink interface {
	WriteSegment(doc []byte) error
	Close() error
}

var (
	_ Sink = &IOWriter{}
	_ Sink = &Daemon{}
)

// IOWriter writes each document followed by a newline.
type IOWriter struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

func WriteToIOWriter(w io.Writer) *IOWriter {
	return &IOWriter{w: w}
}

func (iow *IOWriter) WriteSegment(doc []byte) error {
	iow.mu.Lock()
	defer iow.mu.Unlock()
	iow.buf = append(append(iow.buf[:0], doc...), '\n')
	_, err := iow.w.Write(iow.buf)
	return errors.Wrap(err, "write segment")
}

// Close closes the underlying writer if it is an io.Closer.
func (iow *IOWriter) Close() error {
	if c, ok := iow.w.(io.Closer); ok {
		return errors.Wrap(c.Close(), "close segment writer")
	}
	return nil
}

// DaemonHeader precedes every document sent to the X-Ray daemon.
const DaemonHeader = `{"format":"json","version":1}` + "\n"

// Daemon frames documents the way the X-Ray daemon expects on its UDP
// port: header and document in a single write. Pass a connected
// net.Conn (for example from net.Dial("udp", "127.0.0.1:2000")).
type Daemon struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

func WriteToDaemon(w io.Writer) *Daemon {
	return &Daemon{w: w}
}

func (d *Daemon) WriteSegment(doc []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = append(append(d.buf[:0], DaemonHeader...), doc...)
	_, err := d.w.Write(d.buf)
	return errors.Wrap(err, "send segment to daemon")
}

func (d *Daemon) Close() error {
	if c, ok := d.w.(io.Closer); ok {
		return errors.Wrap(c.Close(), "close daemon connection")
	}
	return nil
}
