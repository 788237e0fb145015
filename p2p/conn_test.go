//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

var frames = []interface{}{
	byte(42),
	uint16(43),
	uint32(44),
	"Hello, world!",
	make([]byte, 1024),
	bytes.Repeat([]byte{0x5a}, 2*1024*1024),
	make([]byte, 16*1024*1024),
}

func sendFrames(c *Conn) error {
	for _, frame := range frames {
		var err error
		switch d := frame.(type) {
		case byte:
			err = c.SendByte(d)
		case uint16:
			err = c.SendUint16(int(d))
		case uint32:
			err = c.SendUint32(int(d))
		case string:
			err = c.SendString(d)
		case []byte:
			err = c.SendData(d)
		default:
			err = fmt.Errorf("invalid frame %T", frame)
		}
		if err != nil {
			return err
		}
	}
	return c.Flush()
}

func TestConn(t *testing.T) {
	cw, c := Pipe()

	done := make(chan error)
	go func() {
		done <- sendFrames(cw)
	}()

	for _, frame := range frames {
		switch d := frame.(type) {
		case byte:
			v, err := c.ReceiveByte()
			if err != nil {
				t.Fatalf("ReceiveByte: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveByte: got %v, expected %v", v, d)
			}

		case uint16:
			v, err := c.ReceiveUint16()
			if err != nil {
				t.Fatalf("ReceiveUint16: %v", err)
			}
			if v != int(d) {
				t.Errorf("ReceiveUint16: got %v, expected %v", v, d)
			}

		case uint32:
			v, err := c.ReceiveUint32()
			if err != nil {
				t.Fatalf("ReceiveUint32: %v", err)
			}
			if v != int(d) {
				t.Errorf("ReceiveUint32: got %v, expected %v", v, d)
			}

		case string:
			v, err := c.ReceiveString()
			if err != nil {
				t.Fatalf("ReceiveString: %v", err)
			}
			if v != d {
				t.Errorf("ReceiveString: got %v, expected %v", v, d)
			}

		case []byte:
			v, err := c.ReceiveData()
			if err != nil {
				t.Fatalf("ReceiveData: %v", err)
			}
			if !bytes.Equal(v, d) {
				t.Errorf("ReceiveData: [%v]byte mismatch", len(d))
			}
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}
	if c.Stats().Recvd != cw.Stats().Sent {
		t.Errorf("stats mismatch: received %v, sent %v",
			c.Stats().Recvd, cw.Stats().Sent)
	}
	if cw.Stats().Flushed == 0 {
		t.Errorf("no flushes recorded")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := c.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: got %v, expected %v", err, ErrClosed)
	}
}

func TestFlushBeforeRead(t *testing.T) {
	c0, c1 := Pipe()
	defer c0.Close()
	defer c1.Close()

	payload := make([]byte, 3*writeBufSize)

	exchange := func(c *Conn, result chan<- error) {
		if err := c.SendData(payload); err != nil {
			result <- err
			return
		}
		if err := c.Flush(); err != nil {
			result <- err
			return
		}
		data, err := c.ReceiveData()
		if err == nil && len(data) != len(payload) {
			err = fmt.Errorf("got %d bytes, expected %d",
				len(data), len(payload))
		}
		result <- err
	}

	result := make(chan error, 2)
	go exchange(c0, result)
	go exchange(c1, result)

	for i := 0; i < 2; i++ {
		if err := <-result; err != nil {
			t.Fatalf("exchange: %v", err)
		}
	}
}

func TestIOStats(t *testing.T) {
	a := IOStats{
		Sent:  10,
		Recvd: 5,
	}
	b := IOStats{
		Sent:    1,
		Flushed: 2,
	}

	sum := a.Add(b)
	if sum != (IOStats{Sent: 11, Recvd: 5, Flushed: 2}) {
		t.Errorf("Add: got %+v", sum)
	}
	if sum.Sum() != 16 {
		t.Errorf("Sum: got %v, expected 16", sum.Sum())
	}
	if sum.Sub(b) != a {
		t.Errorf("Sub: got %+v, expected %+v", sum.Sub(b), a)
	}
}
