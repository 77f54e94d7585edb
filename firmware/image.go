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
	"io"

	"github.com/marcinbor85/gohex"
	"github.com/sirupsen/logrus"
)

// Image holds the three flash regions extracted from an Intel HEX firmware
// file. It is built once per flashing session and read-only afterwards.
type Image struct {
	Map MemoryMap

	// Application is the full application area, settings included.
	Application []byte

	// ChecksumTable is the 64-byte CRC table the device checks the
	// application against. Computed by the firmware build, not here.
	ChecksumTable []byte

	// Settings is the non-volatile settings slice of Application,
	// kept separately because the device CRC does not cover it.
	Settings []byte
}

// MalformedImageError reports a firmware file that cannot be used: either
// the HEX text does not parse, or it does not supply every byte of a
// configured region.
type MalformedImageError struct {
	Reason string
	Err    error
}

func (e *MalformedImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed firmware image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed firmware image: %s", e.Reason)
}

func (e *MalformedImageError) Unwrap() error { return e.Err }

// Load parses Intel HEX text from r and slices the regions named by m.
func Load(r io.Reader, m MemoryMap) (*Image, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		logrus.Error(err)
		return nil, &MalformedImageError{Reason: "intel hex parse failed", Err: err}
	}

	segments := mem.GetDataSegments()
	regions := []struct {
		name       string
		start, end uint16
	}{
		{"application", m.AppStart, m.AppEnd},
		{"checksum table", m.CRCStart, m.CRCEnd},
		{"settings", m.NVMStart, m.NVMEnd},
	}
	for _, reg := range regions {
		if !covers(segments, reg.start, reg.end) {
			return nil, &MalformedImageError{
				Reason: fmt.Sprintf("image does not cover %s area 0x%04X-0x%04X", reg.name, reg.start, reg.end),
			}
		}
	}

	img := &Image{
		Map:           m,
		Application:   mem.ToBinary(uint32(m.AppStart), uint32(m.AppSize()), 0xFF),
		ChecksumTable: mem.ToBinary(uint32(m.CRCStart), uint32(int(m.CRCEnd)-int(m.CRCStart)+1), 0xFF),
	}
	// Settings are a window into the application bytes, sliced rather than
	// re-extracted so the two can never disagree.
	off := int(m.NVMStart) - int(m.AppStart)
	img.Settings = img.Application[off : off+int(m.NVMEnd)-int(m.NVMStart)+1]

	logrus.Infof("Loaded firmware image: %d application bytes, %d settings bytes",
		len(img.Application), len(img.Settings))
	return img, nil
}

// covers reports whether the data segments supply every byte of the
// inclusive range [start, end]. Segments returned by gohex are disjoint.
func covers(segments []gohex.DataSegment, start, end uint16) bool {
	want := int(end) - int(start) + 1
	have := 0
	for _, seg := range segments {
		segStart := int64(seg.Address)
		segEnd := segStart + int64(len(seg.Data)) - 1
		lo := segStart
		if int64(start) > lo {
			lo = int64(start)
		}
		hi := segEnd
		if int64(end) < hi {
			hi = int64(end)
		}
		if hi >= lo {
			have += int(hi - lo + 1)
		}
	}
	return have == want
}
