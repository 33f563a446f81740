package input

import (
	"bufio"
	"errors"
	"io"
	"time"
)

// Source supplies raw input bytes one at a time
type Source interface {
	// ReadByte blocks until a byte is available
	ReadByte() (byte, error)
	// Ready reports whether ReadByte would return without blocking, waiting
	// up to wait for input to arrive
	Ready(wait time.Duration) (bool, error)
	// Close releases the source and restores any terminal mode it changed
	Close() error
}

// ReaderSource reads from an io.Reader. Ready peeks at the reader, so it is
// meant for finite streams such as key scripts and files rather than live
// terminals. End of input counts as ready so the error surfaces from ReadByte.
type ReaderSource struct {
	r      *bufio.Reader
	closer io.Closer
}

// NewReaderSource creates a source over r. If r is an io.Closer, Close closes it.
func NewReaderSource(r io.Reader) *ReaderSource {
	s := &ReaderSource{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// ReadByte returns the next byte, blocking on the reader if needed
func (s *ReaderSource) ReadByte() (byte, error) {
	return s.r.ReadByte()
}

// Ready reports whether ReadByte would return without blocking. End of
// input counts as ready. The reader itself cannot be waited on, so wait is
// unused and Ready may block on an empty reader.
func (s *ReaderSource) Ready(wait time.Duration) (bool, error) {
	if s.r.Buffered() > 0 {
		return true, nil
	}
	if _, err := s.r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// Close closes the reader if it is an io.Closer
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// chunkReader buffers bytes read in chunks from a terminal so that a burst
// such as an arrow sequence costs one system call
type chunkReader struct {
	buf  [256]byte
	head int
	tail int
}

func (c *chunkReader) buffered() bool {
	return c.head < c.tail
}

func (c *chunkReader) next() byte {
	b := c.buf[c.head]
	c.head++
	return b
}

func (c *chunkReader) fill(read func([]byte) (int, error)) error {
	n, err := read(c.buf[:])
	if n > 0 {
		c.head, c.tail = 0, n
		return nil
	}
	if err == nil {
		err = io.EOF
	}
	return err
}
