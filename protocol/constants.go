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

// Command codes understood by the IQS5xx bootloader.
const (
	// CmdRead reads one 64-byte block of flash
	CmdRead = 0x01

	// CmdCRC asks the bootloader to verify the application CRC
	// against the previously written checksum table
	CmdCRC = 0x03

	// CmdWrite programs one 64-byte block of flash
	CmdWrite = 0x04
)

// StatusSuccess is the only status byte the bootloader sends on success.
// Any other value is a device-reported failure and is propagated verbatim.
const StatusSuccess = 0x00

// BlockSize is the flash block size in bytes. Every read and write on the
// wire moves exactly one block.
const BlockSize = 64

// ReadResponseSize is the reply length of CmdRead: one status byte
// followed by one block of data.
const ReadResponseSize = 1 + BlockSize

// BaudRate is the fixed serial speed of the IQS5xx bootloader.
const BaudRate = 57600
