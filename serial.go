// serial.go - part of UartSpy

// Copyright (C) 2026 the UartSpy authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"sync"

	"github.com/distributed/sers"
)

const (
	serialReadBuffSize  = 256
	serialBacklogChunks = 64
)

// captureSource is the polled face of the UART capture: Available
// reports how many bytes can be read without blocking, ReadByte pops
// the oldest one. The device loop never blocks on the source.
type captureSource interface {
	Available() int
	ReadByte() byte
}

// serialCapture reads the monitored UART via a background goroutine
// and buffers chunks for the polling loop. If the loop falls behind
// and the backlog channel fills, further chunks are dropped at the
// source - same failure mode as a hardware FIFO overrun.
type serialCapture struct {
	device string

	mu      sync.Mutex
	port    sers.SerialPort
	backlog chan []byte
	queue   []byte
	closed  chan struct{}
}

func newSerialCapture(device string) *serialCapture {
	return &serialCapture{device: device}
}

// open configures the port 8N1 at the given rate and starts the
// reader goroutine.
func (c *serialCapture) open(baud int) error {
	port, err := sers.Open(c.device)
	if err != nil {
		return fmt.Errorf("opening serial port %s: %w", c.device, err)
	}
	if err := port.SetMode(baud, 8, sers.N, 1, sers.NO_HANDSHAKE); err != nil {
		port.Close()
		return fmt.Errorf("setting serial mode on %s: %w", c.device, err)
	}
	if err := port.SetReadParams(1, 0); err != nil {
		port.Close()
		return fmt.Errorf("setting serial read params on %s: %w", c.device, err)
	}

	c.mu.Lock()
	c.port = port
	c.backlog = make(chan []byte, serialBacklogChunks)
	c.queue = nil
	c.closed = make(chan struct{})
	c.mu.Unlock()

	go c.reader(port, c.backlog, c.closed)
	return nil
}

func (c *serialCapture) reader(port sers.SerialPort, backlog chan []byte, closed chan struct{}) {
	for {
		buff := make([]byte, serialReadBuffSize)
		n, err := port.Read(buff)
		if err != nil {
			select {
			case <-closed:
				// expected on Reopen/Close
			default:
				fmt.Printf("ERROR: serial reader stopping: %v\n", err)
			}
			return
		}
		if n == 0 {
			continue
		}
		select {
		case backlog <- buff[:n]:
		default:
			// consumer stalled; this chunk is lost
		}
	}
}

// Available pulls any waiting chunks off the backlog and reports how
// many buffered bytes remain unread.
func (c *serialCapture) Available() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		select {
		case chunk := <-c.backlog:
			c.queue = append(c.queue, chunk...)
		default:
			return len(c.queue)
		}
	}
}

// ReadByte pops the oldest buffered byte. Call only after Available
// reported at least one.
func (c *serialCapture) ReadByte() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return 0
	}
	b := c.queue[0]
	c.queue = c.queue[1:]
	return b
}

// Reopen tears the port down and brings it back at a new rate. Any
// bytes buffered or in flight across the change are discarded; a rate
// change invalidates everything framed at the old rate anyway.
func (c *serialCapture) Reopen(baud int) error {
	c.Close()
	return c.open(baud)
}

func (c *serialCapture) Close() {
	c.mu.Lock()
	port := c.port
	closed := c.closed
	c.port = nil
	c.queue = nil
	c.backlog = nil
	c.mu.Unlock()
	if port != nil {
		close(closed)
		port.Close()
	}
}
