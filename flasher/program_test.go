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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/firmware"
)

// testImage builds an IQS550 image with a deterministic pattern:
// 15360 application bytes, 64-byte checksum table, 512 settings bytes
// aliasing the application tail.
func testImage(t *testing.T) *firmware.Image {
	t.Helper()
	m := firmware.IQS550

	app := make([]byte, m.AppSize())
	for i := range app {
		app[i] = byte(i*31 + 7)
	}
	table := make([]byte, 64)
	for i := range table {
		table[i] = byte(0xA5 ^ i)
	}

	img := &firmware.Image{
		Map:           m,
		Application:   app,
		ChecksumTable: table,
	}
	off := int(m.NVMStart) - int(m.AppStart)
	img.Settings = app[off : off+int(m.NVMEnd)-int(m.NVMStart)+1]
	return img
}

type progressRecorder struct {
	messages []string
}

func (r *progressRecorder) report(msg string) {
	r.messages = append(r.messages, msg)
}

func (r *progressRecorder) dots() int {
	n := 0
	for _, m := range r.messages {
		if m == "." {
			n++
		}
	}
	return n
}

func (r *progressRecorder) contains(msg string) bool {
	for _, m := range r.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func TestFlashSuccess(t *testing.T) {
	img := testImage(t)
	dev := newMockDevice()
	rec := &progressRecorder{}
	s := New(dev, WithProgress(rec.report))

	require.NoError(t, s.Flash(img))
	require.True(t, dev.isClosed())

	// device holds exactly the image afterwards, checksum table included
	m := img.Map
	require.Equal(t, img.Application, dev.flashRange(m.AppStart, m.AppEnd))
	require.Equal(t, img.ChecksumTable, dev.flashRange(m.CRCStart, m.CRCEnd))

	// phase messages in order: byte count, 240 application dots, write
	// completion, CRC phase, settings pass of 8 dots, settings completion
	msgs := rec.messages
	require.Len(t, msgs, 1+240+1+1+1+8+1)
	require.Contains(t, msgs[0], "15360 bytes")
	for i := 1; i <= 240; i++ {
		require.Equal(t, ".", msgs[i])
	}
	require.Equal(t, "Write complete", msgs[241])
	require.Equal(t, "Checking application CRC", msgs[242])
	require.Equal(t, "Verifying non-volatile settings", msgs[243])
	for i := 244; i <= 251; i++ {
		require.Equal(t, ".", msgs[i])
	}
	require.Equal(t, "Settings verified", msgs[252])
}

func TestFlashStopsOnCRCFailure(t *testing.T) {
	img := testImage(t)
	dev := newMockDevice()
	dev.crcStatus = 0x04
	rec := &progressRecorder{}
	s := New(dev, WithProgress(rec.report))

	err := s.Flash(img)
	var crcErr *CRCCheckError
	require.ErrorAs(t, err, &crcErr)
	require.Equal(t, byte(0x04), crcErr.Status)

	// settings verification must never start after a CRC failure
	require.False(t, rec.contains("Verifying non-volatile settings"))
	require.Equal(t, "Flash failed", rec.messages[len(rec.messages)-1])
	require.True(t, dev.isClosed())
}

func TestFlashAbortsOnFirstWriteFailure(t *testing.T) {
	img := testImage(t)
	dev := newMockDevice()
	dev.failWriteArmed = true
	dev.failWriteAbove = 0x9000
	rec := &progressRecorder{}
	s := New(dev, WithProgress(rec.report))

	err := s.Flash(img)
	var writeErr *BlockWriteError
	require.ErrorAs(t, err, &writeErr)
	require.Equal(t, uint16(0x9000), writeErr.Addr)

	// 0x8400..0x8FFF succeeded: 48 blocks, then the abort
	require.Equal(t, 48, rec.dots())
	require.Equal(t, "Flash failed", rec.messages[len(rec.messages)-1])
	require.True(t, dev.isClosed())
}

func TestVerifySuccess(t *testing.T) {
	img := testImage(t)
	dev := newMockDevice()
	dev.loadFlash(img.Map.AppStart, img.Application)
	rec := &progressRecorder{}
	s := New(dev, WithProgress(rec.report))

	require.NoError(t, s.Verify(img))
	require.Equal(t, 240, rec.dots())
	require.True(t, rec.contains("Verify OK"))
	require.True(t, dev.isClosed())
}

func TestVerifyReportsFirstMismatch(t *testing.T) {
	img := testImage(t)
	dev := newMockDevice()
	corrupted := make([]byte, len(img.Application))
	copy(corrupted, img.Application)
	corrupted[0x8500-int(img.Map.AppStart)] ^= 0xFF
	// corrupt a later byte too: only the first mismatch may be reported
	corrupted[0x9000-int(img.Map.AppStart)] ^= 0xFF
	dev.loadFlash(img.Map.AppStart, corrupted)

	rec := &progressRecorder{}
	s := New(dev, WithProgress(rec.report))

	err := s.Verify(img)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint16(0x8500), mismatch.Addr)
	require.Contains(t, err.Error(), "0x8500")
	require.Equal(t, "Verify failed", rec.messages[len(rec.messages)-1])
	require.True(t, dev.isClosed())
}

func TestFlashWritesSettingsAndReverifiesThem(t *testing.T) {
	img := testImage(t)
	dev := newMockDevice()
	rec := &progressRecorder{}
	s := New(dev, WithProgress(rec.report))

	require.NoError(t, s.Flash(img))

	// settings bytes went out with the application pass
	m := img.Map
	require.Equal(t, img.Settings, dev.flashRange(m.NVMStart, m.NVMEnd))
	// and were re-verified even though the device CRC already passed
	require.True(t, rec.contains("Verifying non-volatile settings"))
	require.True(t, rec.contains("Settings verified"))
}
