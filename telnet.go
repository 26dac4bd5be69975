// telnet.go - part of UartSpy

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
	"net"
	"strconv"
	"time"
)

const (
	mirrorDefaultPort = 24
	mirrorBuffSize    = 3000

	mirrorWelcome = "UartSpy serial mirror\r\n"
)

// byteMirror receives every accepted capture byte alongside the
// screen. Print and Println only stage into a local buffer and never
// block on the network.
type byteMirror interface {
	Print(p []byte)
	Println()
}

// telnetMirror serves the capture stream to telnet-style TCP clients.
// A background goroutine accepts connections; the device loop calls
// Service once per tick to adopt new clients and flush the buffer.
type telnetMirror struct {
	port int

	listener net.Listener
	newConns chan net.Conn
	conns    []net.Conn
	buff     []byte
}

func newTelnetMirror(port int) *telnetMirror {
	if port == 0 {
		port = mirrorDefaultPort
	}
	return &telnetMirror{
		port:     port,
		newConns: make(chan net.Conn, 4),
	}
}

// associate binds the listening socket, retrying with a fixed backoff.
// Exhausting the attempts is unrecoverable: the caller restarts the
// device rather than running blind with no mirror.
func (m *telnetMirror) associate(attempts int, backoff time.Duration) error {
	for try := 1; try <= attempts; try++ {
		listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.port))
		if err == nil {
			m.listener = listener
			go m.acceptor(listener)
			fmt.Printf("INFO: mirror listening on port %d\n", m.port)
			return nil
		}
		fmt.Printf("ERROR: mirror listen attempt %d/%d failed: %v\n", try, attempts, err)
		time.Sleep(backoff)
	}
	return errRestart
}

func (m *telnetMirror) acceptor(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		select {
		case m.newConns <- conn:
		default:
			conn.Close()
		}
	}
}

// Print stages bytes for the next flush. The buffer is bounded: when
// full, the oldest bytes are dropped so a stalled network can never
// stall the capture path.
func (m *telnetMirror) Print(p []byte) {
	m.buff = append(m.buff, p...)
	if over := len(m.buff) - mirrorBuffSize; over > 0 {
		m.buff = m.buff[over:]
	}
}

// Println stages a CRLF, mirroring every line advance the screen makes.
func (m *telnetMirror) Println() {
	m.Print([]byte{'\r', '\n'})
}

// Service adopts any newly accepted clients, greets them, and flushes
// the staged buffer to every live client. Clients whose writes fail
// are dropped without disturbing the others.
func (m *telnetMirror) Service() error {
	for {
		select {
		case conn := <-m.newConns:
			conn.SetWriteDeadline(time.Now().Add(time.Second))
			if _, err := conn.Write([]byte(mirrorWelcome)); err != nil {
				conn.Close()
				continue
			}
			fmt.Printf("INFO: mirror client connected from %v\n", conn.RemoteAddr())
			m.conns = append(m.conns, conn)
		default:
			m.flush()
			return nil
		}
	}
}

func (m *telnetMirror) flush() {
	// with no client attached the ring keeps accumulating (oldest
	// dropped at the cap) so a late joiner still sees recent output
	if len(m.buff) == 0 || len(m.conns) == 0 {
		return
	}
	live := m.conns[:0]
	for _, conn := range m.conns {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if _, err := conn.Write(m.buff); err != nil {
			fmt.Printf("INFO: mirror client %v dropped: %v\n", conn.RemoteAddr(), err)
			conn.Close()
			continue
		}
		live = append(live, conn)
	}
	m.conns = live
	m.buff = m.buff[:0]
}

func (m *telnetMirror) Close() {
	if m.listener != nil {
		m.listener.Close()
	}
	for _, conn := range m.conns {
		conn.Close()
	}
	m.conns = nil
}
