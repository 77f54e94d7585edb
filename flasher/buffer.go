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
	"sync"
	"time"
)

// responseBuffer is a single-producer/single-consumer FIFO of received
// bytes. The session's receive goroutine appends, the block primitives
// take. Each session owns a fresh buffer so stale bytes cannot leak
// between runs.
type responseBuffer struct {
	mu      sync.Mutex
	data    []byte
	arrived chan struct{}
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{arrived: make(chan struct{})}
}

// Append adds received bytes to the buffer and wakes any waiting Take.
// It never blocks and never fails.
func (b *responseBuffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.mu.Lock()
	b.data = append(b.data, p...)
	close(b.arrived)
	b.arrived = make(chan struct{})
	b.mu.Unlock()
}

// Take removes and returns exactly the first n bytes, waiting up to
// timeout for them to accumulate. On timeout it returns ErrTimeout and
// leaves the buffer untouched, so a late partial response stays aligned
// for whoever resynchronizes the stream.
func (b *responseBuffer) Take(n int, timeout time.Duration) ([]byte, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		b.mu.Lock()
		if len(b.data) >= n {
			out := make([]byte, n)
			copy(out, b.data)
			b.data = b.data[n:]
			b.mu.Unlock()
			return out, nil
		}
		arrived := b.arrived
		b.mu.Unlock()

		select {
		case <-arrived:
		case <-deadline.C:
			return nil, ErrTimeout
		}
	}
}

// Len reports the number of buffered bytes.
func (b *responseBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}
