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

package arguments

import (
	"github.com/spf13/cobra"
)

// Flags contains various common flags.
// This is useful so all flags used by commands that need
// this information are consistent with each other.
type Flags struct {
	Port     string
	Firmware string
}

// AddPortFlag adds the serial port flag to the specified Command.
func (f *Flags) AddPortFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Port, "port", "p", "", "Serial port of the bootloader, e.g.: COM10, /dev/ttyACM0")
}

// AddFirmwareFlag adds the firmware file flag to the specified Command.
func (f *Flags) AddFirmwareFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Firmware, "firmware", "f", "", "Firmware image in Intel HEX format")
}
