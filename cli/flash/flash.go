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

package flash

import (
	"bytes"
	"log"
	"os"
	"time"

	"github.com/arduino/go-paths-helper"
	"github.com/spf13/cobra"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/cli/arguments"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/cli/feedback"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/firmware"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/flasher"
)

var (
	flags   arguments.Flags
	retries int
)

// NewCommand creates a new `flash` command
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "flash",
		Short:   "Flashes a firmware image to the touch controller.",
		Long:    "Writes the firmware image to the application area, runs the device CRC check and re-verifies the non-volatile settings.",
		Example: "  " + os.Args[0] + " flash --port /dev/ttyACM0 --firmware fw.hex",
		Args:    cobra.NoArgs,
		Run:     run,
	}

	flags.AddPortFlag(command)
	flags.AddFirmwareFlag(command)
	command.Flags().IntVar(&retries, "retries", 0, "Number of retries in case of flashing failure")
	return command
}

func run(cmd *cobra.Command, args []string) {
	if flags.Port == "" {
		log.Fatal("Please specify a serial port")
	}
	if flags.Firmware == "" {
		log.Fatal("Please specify a firmware file")
	}

	data, err := paths.New(flags.Firmware).ReadFile()
	if err != nil {
		log.Fatalf("Error opening firmware file: %s", err)
	}
	img, err := firmware.Load(bytes.NewReader(data), firmware.IQS550)
	if err != nil {
		log.Fatalf("Error loading firmware image: %s", err)
	}

	printer := feedback.NewProgressPrinter(os.Stdout)
	retry := 0
	for {
		err := flashOnce(img, printer)
		if err == nil {
			log.Println("Operation completed: success! :-)")
			break
		}
		log.Println("Error: " + err.Error())

		if retry >= retries {
			log.Fatal("Operation failed. :-(")
		}

		retry++
		log.Println("Waiting 1 second before retrying...")
		time.Sleep(time.Second)
		log.Printf("Retrying flash (%d of %d)", retry, retries)
	}
}

// flashOnce runs one full flashing session. Each attempt opens its own
// session; a failed session is never reused.
func flashOnce(img *firmware.Image, printer *feedback.ProgressPrinter) error {
	session, err := flasher.Open(flags.Port, flasher.WithProgress(printer.Report))
	if err != nil {
		return err
	}
	return session.Flash(img)
}
