//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements framed peer-to-peer connections. Integers
// are sent in big endian byte order and binary data is prefixed with
// its uint32 length.
package p2p

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/markkurossi/mpcnet/ot"
)

var (
	_ ot.IO = &Conn{}
)

const (
	writeBufSize = 64 * 1024
	readBufSize  = 256 * 1024
	queueLen     = 8
)

// ErrClosed is returned for operations on a closed connection.
var ErrClosed = errors.New("p2p: connection closed")

// IOStats holds I/O statistics.
type IOStats struct {
	Sent    uint64
	Recvd   uint64
	Flushed uint64
}

// Add returns the sum of the statistics.
func (stats IOStats) Add(o IOStats) IOStats {
	return IOStats{
		Sent:    stats.Sent + o.Sent,
		Recvd:   stats.Recvd + o.Recvd,
		Flushed: stats.Flushed + o.Flushed,
	}
}

// Sub returns the statistics accumulated since the argument snapshot.
func (stats IOStats) Sub(o IOStats) IOStats {
	return IOStats{
		Sent:    stats.Sent - o.Sent,
		Recvd:   stats.Recvd - o.Recvd,
		Flushed: stats.Flushed - o.Flushed,
	}
}

// Sum returns sum of sent and received bytes.
func (stats IOStats) Sum() uint64 {
	return stats.Sent + stats.Recvd
}

// Conn implements a framed connection. Sent data is buffered until
// Flush, which queues the buffer for a writer goroutine. Both ends
// may therefore flush before reading their peer's data.
type Conn struct {
	conn io.ReadWriter
	r    *bufio.Reader
	wbuf []byte

	queue chan []byte
	free  chan []byte
	done  chan struct{}

	m      sync.Mutex
	err    error
	closed bool

	sent    atomic.Uint64
	recvd   atomic.Uint64
	flushed atomic.Uint64
}

type countingReader struct {
	r     io.Reader
	count *atomic.Uint64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.count.Add(uint64(n))
	return n, err
}

// NewConn creates a new connection around the argument connection.
func NewConn(conn io.ReadWriter) *Conn {
	c := &Conn{
		conn:  conn,
		wbuf:  make([]byte, 0, writeBufSize),
		queue: make(chan []byte, queueLen),
		free:  make(chan []byte, queueLen),
		done:  make(chan struct{}),
	}
	c.r = bufio.NewReaderSize(&countingReader{
		r:     conn,
		count: &c.recvd,
	}, readBufSize)

	go c.writer()

	return c
}

// Pipe creates a bidirectional in-memory connection pair. Anything
// sent to the first endpoint can be received from the second and
// vice versa.
func Pipe() (*Conn, *Conn) {
	c0, c1 := net.Pipe()
	return NewConn(c0), NewConn(c1)
}

func (c *Conn) writer() {
	defer close(c.done)

	for buf := range c.queue {
		if c.writeErr() == nil {
			if _, err := c.conn.Write(buf); err != nil {
				c.setErr(err)
			}
		}
		select {
		case c.free <- buf[:0]:
		default:
		}
	}
}

func (c *Conn) writeErr() error {
	c.m.Lock()
	defer c.m.Unlock()
	return c.err
}

func (c *Conn) setErr(err error) {
	c.m.Lock()
	if c.err == nil {
		c.err = err
	}
	c.m.Unlock()
}

// Stats returns the connection's I/O statistics.
func (c *Conn) Stats() IOStats {
	return IOStats{
		Sent:    c.sent.Load(),
		Recvd:   c.recvd.Load(),
		Flushed: c.flushed.Load(),
	}
}

// Flush flushed any pending data in the connection.
func (c *Conn) Flush() error {
	if err := c.writeErr(); err != nil {
		return err
	}
	if len(c.wbuf) == 0 {
		return nil
	}
	c.sent.Add(uint64(len(c.wbuf)))
	c.flushed.Add(1)
	c.queue <- c.wbuf

	select {
	case buf := <-c.free:
		c.wbuf = buf
	default:
		c.wbuf = make([]byte, 0, writeBufSize)
	}
	return nil
}

func (c *Conn) spill() error {
	if len(c.wbuf) >= writeBufSize {
		return c.Flush()
	}
	return nil
}

// Close flushes any pending data and closes the connection.
func (c *Conn) Close() error {
	c.m.Lock()
	if c.closed {
		c.m.Unlock()
		return ErrClosed
	}
	c.closed = true
	c.m.Unlock()

	flushErr := c.Flush()
	close(c.queue)
	<-c.done

	if closer, ok := c.conn.(io.Closer); ok {
		if err := closer.Close(); err != nil && flushErr == nil {
			flushErr = err
		}
	}
	if flushErr != nil {
		return flushErr
	}
	return c.writeErr()
}

// SendByte sends a byte value.
func (c *Conn) SendByte(val byte) error {
	c.wbuf = append(c.wbuf, val)
	return c.spill()
}

// SendUint16 sends an uint16 value.
func (c *Conn) SendUint16(val int) error {
	c.wbuf = binary.BigEndian.AppendUint16(c.wbuf, uint16(val))
	return c.spill()
}

// SendUint32 sends an uint32 value.
func (c *Conn) SendUint32(val int) error {
	c.wbuf = binary.BigEndian.AppendUint32(c.wbuf, uint32(val))
	return c.spill()
}

// SendData sends binary data.
func (c *Conn) SendData(val []byte) error {
	c.wbuf = binary.BigEndian.AppendUint32(c.wbuf, uint32(len(val)))
	c.wbuf = append(c.wbuf, val...)
	return c.spill()
}

// SendString sends a string value.
func (c *Conn) SendString(val string) error {
	return c.SendData([]byte(val))
}

// ReceiveByte receives a byte value.
func (c *Conn) ReceiveByte() (byte, error) {
	return c.r.ReadByte()
}

// ReceiveUint16 receives an uint16 value.
func (c *Conn) ReceiveUint16() (int, error) {
	var buf [2]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(buf[:])), nil
}

// ReceiveUint32 receives an uint32 value.
func (c *Conn) ReceiveUint32() (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(c.r, buf[:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(buf[:])), nil
}

// ReceiveData receives binary data.
func (c *Conn) ReceiveData() ([]byte, error) {
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	result := make([]byte, n)
	if _, err := io.ReadFull(c.r, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ReceiveString receives a string value.
func (c *Conn) ReceiveString() (string, error) {
	data, err := c.ReceiveData()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
