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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadBlockCmd(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x04, 0x84, 0x00}, ReadBlockCmd(0x8400))
	require.Equal(t, []byte{0x01, 0x04, 0xBF, 0xC0}, ReadBlockCmd(0xBFC0))
}

func TestWriteBlockCmd(t *testing.T) {
	data := make([]byte, BlockSize)
	for i := range data {
		data[i] = byte(i)
	}

	cmd := WriteBlockCmd(0x83C0, data)
	require.Len(t, cmd, 4+BlockSize)
	require.Equal(t, []byte{0x04, 0x44, 0x83, 0xC0}, cmd[:4])
	require.Equal(t, data, cmd[4:])
}

func TestWriteBlockCmdShortPayload(t *testing.T) {
	// a ragged final chunk goes out unpadded with its real length
	cmd := WriteBlockCmd(0xBFC0, []byte{0xAA, 0xBB})
	require.Equal(t, []byte{0x04, 0x06, 0xBF, 0xC0, 0xAA, 0xBB}, cmd)
}

func TestCRCCheckCmd(t *testing.T) {
	require.Equal(t, []byte{0x03, 0x02}, CRCCheckCmd())
}
