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

package dump

import (
	"log"
	"os"

	"github.com/arduino/go-paths-helper"
	"github.com/spf13/cobra"

	"github.com/sekigon-gonnoc/iqs5xx-web-updater/cli/arguments"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/cli/feedback"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/firmware"
	"github.com/sekigon-gonnoc/iqs5xx-web-updater/flasher"
)

var (
	flags  arguments.Flags
	output string
)

// NewCommand creates a new `dump` command
func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     "dump",
		Short:   "Reads the application area out of the touch controller.",
		Long:    "Reads the whole application area from the touch controller and writes the raw bytes to a file, or to stdout when no output file is given.",
		Example: "  " + os.Args[0] + " dump --port /dev/ttyACM0 --output app.bin",
		Args:    cobra.NoArgs,
		Run:     run,
	}

	flags.AddPortFlag(command)
	command.Flags().StringVarP(&output, "output", "o", "", "File to write the application area to")
	return command
}

func run(cmd *cobra.Command, args []string) {
	if flags.Port == "" {
		log.Fatal("Please specify a serial port")
	}

	printer := feedback.NewProgressPrinter(os.Stderr)
	session, err := flasher.Open(flags.Port, flasher.WithProgress(printer.Report))
	if err != nil {
		log.Fatal(err)
	}
	data, err := session.Dump(firmware.IQS550)
	if err != nil {
		log.Fatal("Operation failed. :-(")
	}

	if output == "" {
		os.Stdout.Write(data)
		return
	}
	if err := paths.New(output).WriteFile(data); err != nil {
		log.Fatalf("Error writing output file: %s", err)
	}
	log.Printf("Wrote %d bytes to %s", len(data), output)
}
