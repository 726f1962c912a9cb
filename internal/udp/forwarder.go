// Package udp forwards verified NMEA sentences as UDP datagrams, one sentence
// per datagram, for navigation apps that listen on the conventional port 10110.
package udp

import (
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
)

type udpConn interface {
	io.Writer
	io.Closer
}

type resolveFunc func(network, address string) (*net.UDPAddr, error)
type dialFunc func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)

type Forwarder struct {
	dest string

	mu     sync.Mutex
	conn   udpConn
	sent   uint64
	failed uint64
}

func NewForwarder(dest string) (*Forwarder, error) {
	return newForwarder(dest, net.ResolveUDPAddr, func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return net.DialUDP(network, laddr, raddr)
	})
}

func newForwarder(dest string, resolve resolveFunc, dial dialFunc) (*Forwarder, error) {
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := dial("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Forwarder{dest: dest, conn: conn}, nil
}

// Send writes sentence terminated by CRLF. Blank input is ignored.
func (f *Forwarder) Send(sentence string) error {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return fmt.Errorf("forwarder to %s is closed", f.dest)
	}
	if _, err := f.conn.Write([]byte(sentence + "\r\n")); err != nil {
		f.failed++
		return err
	}
	f.sent++
	return nil
}

// Counts returns the number of datagrams written and failed.
func (f *Forwarder) Counts() (sent, failed uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent, f.failed
}

func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}
