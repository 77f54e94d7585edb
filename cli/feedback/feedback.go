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

package feedback

import (
	"fmt"
	"io"
)

// ProgressPrinter renders the flasher's incremental progress strings on a
// terminal: dots accumulate on one line, any other message starts a new
// line. Not safe for concurrent use; the flasher reports sequentially.
type ProgressPrinter struct {
	w      io.Writer
	inDots bool
}

// NewProgressPrinter creates a printer writing to w.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// Report implements the flasher progress callback.
func (p *ProgressPrinter) Report(msg string) {
	if msg == "." {
		fmt.Fprint(p.w, ".")
		p.inDots = true
		return
	}
	if p.inDots {
		fmt.Fprintln(p.w)
		p.inDots = false
	}
	fmt.Fprintln(p.w, msg)
}
