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

import "fmt"

// SLIP framing (RFC 1055). Commands are framed on the way to the device;
// the bootloader replies with raw fixed-length payloads, so only Encode is
// used on the live serial path. Decode is the exact inverse.
const (
	frameEnd    = 0xC0
	frameEsc    = 0xDB
	frameEscEnd = 0xDC
	frameEscEsc = 0xDD
)

// Encode wraps a command in a SLIP frame: leading and trailing END markers
// with END/ESC payload bytes escaped.
func Encode(cmd []byte) []byte {
	frame := make([]byte, 0, len(cmd)+2)
	frame = append(frame, frameEnd)
	for _, b := range cmd {
		switch b {
		case frameEnd:
			frame = append(frame, frameEsc, frameEscEnd)
		case frameEsc:
			frame = append(frame, frameEsc, frameEscEsc)
		default:
			frame = append(frame, b)
		}
	}
	return append(frame, frameEnd)
}

// Decode unwraps a single SLIP frame produced by Encode.
func Decode(frame []byte) ([]byte, error) {
	payload := make([]byte, 0, len(frame))
	esc := false
	for _, b := range frame {
		if esc {
			switch b {
			case frameEscEnd:
				payload = append(payload, frameEnd)
			case frameEscEsc:
				payload = append(payload, frameEsc)
			default:
				return nil, fmt.Errorf("invalid escape sequence 0x%02X 0x%02X", frameEsc, b)
			}
			esc = false
			continue
		}
		switch b {
		case frameEnd:
			// frame delimiter
		case frameEsc:
			esc = true
		default:
			payload = append(payload, b)
		}
	}
	if esc {
		return nil, fmt.Errorf("frame ends with dangling escape byte 0x%02X", frameEsc)
	}
	return payload, nil
}
