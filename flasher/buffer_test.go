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
	"time"

	"github.com/stretchr/testify/require"
)

func TestTakeExactlyN(t *testing.T) {
	b := newResponseBuffer()
	b.Append([]byte{1, 2, 3, 4, 5})

	got, err := b.Take(3, time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)
	require.Equal(t, 2, b.Len())

	// remainder stays buffered, FIFO order preserved
	got, err = b.Take(2, time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte{4, 5}, got)
	require.Equal(t, 0, b.Len())
}

func TestTakeSpansMultipleAppends(t *testing.T) {
	b := newResponseBuffer()
	b.Append([]byte{1})
	b.Append([]byte{2, 3})
	b.Append([]byte{4})

	got, err := b.Take(4, time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestTakeWaitsForArrival(t *testing.T) {
	b := newResponseBuffer()
	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Append([]byte{0xAA, 0xBB})
	}()

	got, err := b.Take(2, time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB}, got)
}

func TestTakeTimeoutLeavesBufferUntouched(t *testing.T) {
	b := newResponseBuffer()
	b.Append([]byte{1, 2})

	_, err := b.Take(5, 50*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)

	// the partial bytes must still be there for a later call
	require.Equal(t, 2, b.Len())
	got, err := b.Take(2, time.Second)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, got)
}

func TestTakeTimeoutOnEmptyBuffer(t *testing.T) {
	b := newResponseBuffer()
	start := time.Now()
	_, err := b.Take(1, 50*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
