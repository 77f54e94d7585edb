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
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/firmware"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/protocol"
)

// Flash programs the firmware image and verifies the result. The sequence
// matters: settings bytes live inside the application area and must be on
// the device before the CRC check runs, but the bootloader's CRC skips
// them, so they get an explicit read-back pass afterwards.
//
// The session is closed on every exit path; a failed session cannot be
// reused or resumed.
func (s *Session) Flash(img *firmware.Image) error {
	defer s.Close()
	if err := s.flash(img); err != nil {
		logrus.Error(err)
		s.report(err.Error())
		s.report("Flash failed")
		return err
	}
	logrus.Info("flash complete")
	return nil
}

func (s *Session) flash(img *firmware.Image) error {
	m := img.Map
	app := img.Application

	s.report(fmt.Sprintf("Writing %d bytes to application area 0x%04X-0x%04X", len(app), m.AppStart, m.AppEnd))
	addr := uint32(m.AppStart)
	for off := 0; off < len(app); off += protocol.BlockSize {
		end := off + protocol.BlockSize
		if end > len(app) {
			end = len(app)
		}
		if err := s.WriteBlock(uint16(addr), app[off:end]); err != nil {
			return err
		}
		s.report(".")
		addr += protocol.BlockSize
	}
	s.report("Write complete")

	s.report("Checking application CRC")
	if err := s.CheckCRC(m.CRCStart, img.ChecksumTable); err != nil {
		return err
	}

	// The device CRC said the application is good, but it never covered
	// the settings bytes. Read them back and compare.
	s.report("Verifying non-volatile settings")
	read, err := s.readRange(m.NVMStart, m.NVMEnd)
	if err != nil {
		return err
	}
	if err := compare(read, img.Settings, m.NVMStart); err != nil {
		return err
	}
	s.report("Settings verified")
	return nil
}

// Verify reads the whole application area back from the device and
// compares it byte-for-byte against the image, in ascending address order.
func (s *Session) Verify(img *firmware.Image) error {
	defer s.Close()
	if err := s.verify(img); err != nil {
		logrus.Error(err)
		s.report(err.Error())
		s.report("Verify failed")
		return err
	}
	logrus.Info("verify complete")
	return nil
}

func (s *Session) verify(img *firmware.Image) error {
	m := img.Map
	s.report(fmt.Sprintf("Reading %d bytes from application area 0x%04X-0x%04X", len(img.Application), m.AppStart, m.AppEnd))
	read, err := s.readRange(m.AppStart, m.AppEnd)
	if err != nil {
		return err
	}
	if err := compare(read, img.Application, m.AppStart); err != nil {
		return err
	}
	s.report("Verify OK")
	return nil
}

// Dump reads the application area described by m and returns its bytes.
func (s *Session) Dump(m firmware.MemoryMap) ([]byte, error) {
	defer s.Close()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	s.report(fmt.Sprintf("Reading %d bytes from application area 0x%04X-0x%04X", m.AppSize(), m.AppStart, m.AppEnd))
	read, err := s.readRange(m.AppStart, m.AppEnd)
	if err != nil {
		logrus.Error(err)
		s.report(err.Error())
		s.report("Read failed")
		return nil, err
	}
	s.report("Read complete")
	return read, nil
}

// readRange reads [start, end] one block at a time, reporting "." per
// block. The trailing bytes of the last block past end are discarded.
func (s *Session) readRange(start, end uint16) ([]byte, error) {
	size := int(end) - int(start) + 1
	read := make([]byte, 0, size)
	for addr := uint32(start); addr <= uint32(end); addr += protocol.BlockSize {
		block, err := s.ReadBlock(uint16(addr))
		if err != nil {
			return nil, err
		}
		read = append(read, block...)
		s.report(".")
	}
	return read[:size], nil
}

// compare finds the first index where got and want differ and turns it
// into an absolute flash address.
func compare(got, want []byte, base uint16) error {
	if bytes.Equal(got, want) {
		return nil
	}
	n := len(want)
	if len(got) < n {
		n = len(got)
	}
	for i := 0; i < n; i++ {
		if got[i] != want[i] {
			return &MismatchError{Addr: base + uint16(i)}
		}
	}
	return &MismatchError{Addr: base + uint16(n)}
}
