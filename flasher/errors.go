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
	"fmt"
)

// ErrTimeout is returned when the device does not produce the expected
// number of response bytes within the exchange timeout. Block errors wrap
// it, so errors.Is(err, ErrTimeout) tells a silent device apart from a
// device-reported bad status.
var ErrTimeout = errors.New("timed out waiting for device response")

// BlockSizeError indicates a write payload larger than one flash block.
type BlockSizeError struct {
	Size int
}

func (e *BlockSizeError) Error() string {
	return fmt.Sprintf("invalid block size: %d bytes exceeds 64-byte block", e.Size)
}

// CRCSizeError indicates a checksum table that is not exactly one block.
type CRCSizeError struct {
	Size int
}

func (e *CRCSizeError) Error() string {
	return fmt.Sprintf("invalid checksum table size: got %d bytes, need exactly 64", e.Size)
}

// BlockReadError indicates a failed read of the block at Addr. Status
// carries the device status byte when the device answered; Err carries the
// transport cause (timeout, write failure) when it did not.
type BlockReadError struct {
	Addr   uint16
	Status byte
	Err    error
}

func (e *BlockReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("read block 0x%04X: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("read block 0x%04X: device status 0x%02X", e.Addr, e.Status)
}

func (e *BlockReadError) Unwrap() error { return e.Err }

// BlockWriteError indicates a failed write of the block at Addr.
type BlockWriteError struct {
	Addr   uint16
	Status byte
	Err    error
}

func (e *BlockWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("write block 0x%04X: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("write block 0x%04X: device status 0x%02X", e.Addr, e.Status)
}

func (e *BlockWriteError) Unwrap() error { return e.Err }

// CRCCheckError indicates that the device rejected the application CRC.
type CRCCheckError struct {
	Status byte
	Err    error
}

func (e *CRCCheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("CRC check: %v", e.Err)
	}
	return fmt.Sprintf("CRC check failed: device status 0x%02X", e.Status)
}

func (e *CRCCheckError) Unwrap() error { return e.Err }

// MismatchError indicates the first address at which the device flash
// contents differ from the firmware image.
type MismatchError struct {
	Addr uint16
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verification mismatch at address 0x%04X", e.Addr)
}
