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

package protocol

// Command builders. Layouts per the IQS5xx bootloader datasheet:
//
//	READ  [0x01, 0x04, addrHi, addrLo]            -> [status, 64 data bytes]
//	CRC   [0x03, 0x02]                            -> [status]
//	WRITE [0x04, 0x44, addrHi, addrLo, data...]   -> [status]
//
// The second byte is the total command length. Addresses are big-endian.

// ReadBlockCmd builds the command that reads the 64-byte block at addr.
func ReadBlockCmd(addr uint16) []byte {
	return []byte{CmdRead, 0x04, byte(addr >> 8), byte(addr)}
}

// WriteBlockCmd builds the command that programs data at addr.
// The caller guarantees len(data) <= BlockSize.
func WriteBlockCmd(addr uint16, data []byte) []byte {
	cmd := make([]byte, 0, 4+len(data))
	cmd = append(cmd, CmdWrite, byte(4+len(data)), byte(addr>>8), byte(addr))
	return append(cmd, data...)
}

// CRCCheckCmd builds the command that triggers the device-side CRC check of
// the application area against the checksum table.
func CRCCheckCmd() []byte {
	return []byte{CmdCRC, 0x02}
}
