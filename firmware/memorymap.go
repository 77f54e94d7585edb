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

package firmware

import (
	"fmt"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/protocol"
)

// MemoryMap describes the flash layout of one IQS5xx variant. All ranges
// are inclusive on both ends.
//
// The settings range must lie inside the application range: the bootloader
// excludes it from the CRC computation, so it is written together with the
// application but verified separately by reading it back. The checksum
// table lives outside the application range and is exactly one block.
type MemoryMap struct {
	AppStart uint16
	AppEnd   uint16
	CRCStart uint16
	CRCEnd   uint16
	NVMStart uint16
	NVMEnd   uint16
}

// IQS550 is the memory map of the IQS550 (default variant).
var IQS550 = MemoryMap{
	AppStart: 0x8400,
	AppEnd:   0xBFFF,
	CRCStart: 0x83C0,
	CRCEnd:   0x83FF,
	NVMStart: 0xBE00,
	NVMEnd:   0xBFFF,
}

// Validate checks the structural invariants of the map.
func (m MemoryMap) Validate() error {
	if m.AppStart > m.AppEnd || m.CRCStart > m.CRCEnd || m.NVMStart > m.NVMEnd {
		return fmt.Errorf("memory map has an inverted range")
	}
	if size := int(m.CRCEnd) - int(m.CRCStart) + 1; size != protocol.BlockSize {
		return fmt.Errorf("checksum table must be exactly %d bytes, map has %d", protocol.BlockSize, size)
	}
	if m.CRCEnd >= m.AppStart && m.CRCStart <= m.AppEnd {
		return fmt.Errorf("checksum table 0x%04X-0x%04X overlaps application area 0x%04X-0x%04X",
			m.CRCStart, m.CRCEnd, m.AppStart, m.AppEnd)
	}
	if m.NVMStart < m.AppStart || m.NVMEnd > m.AppEnd {
		return fmt.Errorf("settings area 0x%04X-0x%04X not contained in application area 0x%04X-0x%04X",
			m.NVMStart, m.NVMEnd, m.AppStart, m.AppEnd)
	}
	return nil
}

// AppSize returns the application area length in bytes.
func (m MemoryMap) AppSize() int {
	return int(m.AppEnd) - int(m.AppStart) + 1
}
