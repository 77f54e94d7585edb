/*
  iqs5xx-web-updater
  Copyright (c) 2026 sekigon-gonnoc.  All right reserved.

  This library is free software; you can redistribute it and/or
  modify it under the terms of the GNU Lesser General Public
  License as published by the Free Software Foundation; either
  version 2.1 of the License, or (at your option) any later version.

  This library is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
  Lesser General Public License for more details.

  You should have received a copy of the GNU Lesser General Public
  License along with this library; if not, write to the Free Software
  Foundation, Inc., 51 Franklin St, Fifth Floor, Boston, MA  02110-1301  USA
*/

package flasher

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/protocol"
)

// DefaultTimeout is the per-exchange response timeout. One block exchange
// at 57600 baud completes well inside it.
const DefaultTimeout = time.Second

// Session owns the transport and the response buffer for one flashing or
// verification run. Block exchanges are strictly sequential: one command
// on the wire, then its full response, never pipelined.
type Session struct {
	dev      io.ReadWriteCloser
	rx       *responseBuffer
	timeout  time.Duration
	progress func(string)

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout overrides the per-exchange response timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithProgress sets the progress callback. It receives human-readable
// incremental strings ("." per block, phase lines, error text) and must
// not block.
func WithProgress(report func(string)) Option {
	return func(s *Session) {
		if report != nil {
			s.progress = report
		}
	}
}

// Open opens the serial port at the bootloader's fixed baud rate and
// starts a session on it.
func Open(portAddress string, opts ...Option) (*Session, error) {
	port, err := serial.Open(portAddress, &serial.Mode{BaudRate: protocol.BaudRate})
	if err != nil {
		logrus.Error(err)
		return nil, err
	}
	logrus.Infof("Opened port %s at %d", portAddress, protocol.BaudRate)
	return New(port, opts...), nil
}

// New starts a session on an already-open transport. Used directly by
// tests; Open is the serial entry point.
func New(dev io.ReadWriteCloser, opts ...Option) *Session {
	s := &Session{
		dev:      dev,
		rx:       newResponseBuffer(),
		timeout:  DefaultTimeout,
		progress: func(string) {},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.receive()
	return s
}

// receive is the only concurrent actor: it moves bytes from the transport
// into the response buffer until the transport is closed.
func (s *Session) receive() {
	defer close(s.done)
	buf := make([]byte, 256)
	for {
		n, err := s.dev.Read(buf)
		if n > 0 {
			s.rx.Append(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// Close releases the transport. Safe to call more than once; every
// top-level operation calls it on all exit paths.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.dev.Close()
		<-s.done
	})
	return s.closeErr
}

func (s *Session) sendCommand(cmd []byte) error {
	frame := protocol.Encode(cmd)
	logrus.Debugf("sending command 0x%02X (%d bytes framed)", cmd[0], len(frame))
	for len(frame) > 0 {
		n, err := s.dev.Write(frame)
		if err != nil {
			logrus.Error(err)
			return err
		}
		frame = frame[n:]
	}
	return nil
}

// ReadBlock reads the 64-byte flash block at addr.
func (s *Session) ReadBlock(addr uint16) ([]byte, error) {
	if err := s.sendCommand(protocol.ReadBlockCmd(addr)); err != nil {
		return nil, &BlockReadError{Addr: addr, Err: err}
	}
	resp, err := s.rx.Take(protocol.ReadResponseSize, s.timeout)
	if err != nil {
		logrus.Errorf("read block 0x%04X: %v", addr, err)
		return nil, &BlockReadError{Addr: addr, Err: err}
	}
	if resp[0] != protocol.StatusSuccess {
		logrus.Errorf("read block 0x%04X: device status 0x%02X", addr, resp[0])
		return nil, &BlockReadError{Addr: addr, Status: resp[0]}
	}
	return resp[1:], nil
}

// WriteBlock programs data at addr. The payload must fit in one block;
// a short final chunk of a region is sent unpadded.
func (s *Session) WriteBlock(addr uint16, data []byte) error {
	if len(data) > protocol.BlockSize {
		return &BlockSizeError{Size: len(data)}
	}
	if err := s.sendCommand(protocol.WriteBlockCmd(addr, data)); err != nil {
		return &BlockWriteError{Addr: addr, Err: err}
	}
	resp, err := s.rx.Take(1, s.timeout)
	if err != nil {
		logrus.Errorf("write block 0x%04X: %v", addr, err)
		return &BlockWriteError{Addr: addr, Err: err}
	}
	if resp[0] != protocol.StatusSuccess {
		logrus.Errorf("write block 0x%04X: device status 0x%02X", addr, resp[0])
		return &BlockWriteError{Addr: addr, Status: resp[0]}
	}
	return nil
}

// CheckCRC writes the checksum table at tableAddr, then asks the device to
// verify the application area against it.
func (s *Session) CheckCRC(tableAddr uint16, table []byte) error {
	if len(table) != protocol.BlockSize {
		return &CRCSizeError{Size: len(table)}
	}
	if err := s.WriteBlock(tableAddr, table); err != nil {
		return &CRCCheckError{Err: err}
	}
	if err := s.sendCommand(protocol.CRCCheckCmd()); err != nil {
		return &CRCCheckError{Err: err}
	}
	resp, err := s.rx.Take(1, s.timeout)
	if err != nil {
		logrus.Errorf("CRC check: %v", err)
		return &CRCCheckError{Err: err}
	}
	if resp[0] != protocol.StatusSuccess {
		logrus.Errorf("CRC check failed: device status 0x%02X", resp[0])
		return &CRCCheckError{Status: resp[0]}
	}
	return nil
}

func (s *Session) report(msg string) {
	s.progress(msg)
}
