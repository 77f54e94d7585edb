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
	"errors"
	"io"
	"sync"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/protocol"
)

// mockDevice simulates the IQS5xx bootloader behind an io.ReadWriteCloser.
// Each transport write carries exactly one SLIP frame; replies are raw
// unframed payloads, like the real device.
type mockDevice struct {
	mu     sync.Mutex
	flash  [0x10000]byte
	writes int

	// fault injection
	silent         bool // never reply at all
	readStatus     byte // status byte for READ replies
	writeStatus    byte // status byte for WRITE replies
	crcStatus      byte // status byte for CRC replies
	failWriteAbove uint16
	failWriteArmed bool

	rx        chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newMockDevice() *mockDevice {
	return &mockDevice{
		rx:     make(chan []byte, 1024),
		closed: make(chan struct{}),
	}
}

func (d *mockDevice) Write(p []byte) (int, error) {
	select {
	case <-d.closed:
		return 0, errors.New("device closed")
	default:
	}

	cmd, err := protocol.Decode(p)
	if err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++

	if d.silent {
		return len(p), nil
	}

	switch cmd[0] {
	case protocol.CmdRead:
		addr := int(cmd[2])<<8 | int(cmd[3])
		resp := make([]byte, protocol.ReadResponseSize)
		resp[0] = d.readStatus
		copy(resp[1:], d.flash[addr:addr+protocol.BlockSize])
		d.rx <- resp
	case protocol.CmdWrite:
		addr := int(cmd[2])<<8 | int(cmd[3])
		status := d.writeStatus
		if d.failWriteArmed && uint16(addr) >= d.failWriteAbove {
			status = 0x01
		}
		if status == protocol.StatusSuccess {
			copy(d.flash[addr:], cmd[4:])
		}
		d.rx <- []byte{status}
	case protocol.CmdCRC:
		d.rx <- []byte{d.crcStatus}
	}
	return len(p), nil
}

func (d *mockDevice) Read(p []byte) (int, error) {
	select {
	case data := <-d.rx:
		return copy(p, data), nil
	case <-d.closed:
		return 0, io.EOF
	}
}

func (d *mockDevice) Close() error {
	d.closeOnce.Do(func() { close(d.closed) })
	return nil
}

func (d *mockDevice) isClosed() bool {
	select {
	case <-d.closed:
		return true
	default:
		return false
	}
}

func (d *mockDevice) writeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

func (d *mockDevice) flashRange(start, end uint16) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, int(end)-int(start)+1)
	copy(out, d.flash[start:int(end)+1])
	return out
}

func (d *mockDevice) loadFlash(addr uint16, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.flash[addr:], data)
}
