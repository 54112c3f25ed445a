/*
 * Copyright 2026 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ls

import (
	"fmt"
	"io"
	"os"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/internal"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type conf struct {
	recordCount int
	strict      bool
	fileName    string
	id          []string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "ls FILE",
		Short: "List records from a flat MARC file",
		Long:  `List one line per record: offset, control number, leader and number of fields. Use - to read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileName = args[0]
			return runE(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "The maximum number of records to show")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "strict parsing")
	cmd.Flags().StringArrayVar(&c.id, "id", []string{}, "specify control numbers (001) of records to list")

	return cmd
}

func runE(out io.Writer, c *conf) error {
	r, err := internal.OpenReader(c.fileName, c.strict)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	count := 0
	for {
		record, offset, validation, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "rec num: %d, offset %d", count+1, offset)
		}
		if !validation.Valid() {
			log.Warnf("record at offset %d: %s", offset, validation)
		}
		if len(c.id) > 0 && !internal.Contains(c.id, record.ControlNumber()) {
			continue
		}
		count++

		printRecord(out, offset, record)

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	_, _ = fmt.Fprintln(os.Stderr, "Count: ", count)
	return nil
}

func printRecord(out io.Writer, offset int64, record *gomarc.Record) {
	controlNumber := internal.CropString(record.ControlNumber(), 20)
	_, _ = fmt.Fprintf(out, "%9d %-20s %-24s %3d\n", offset, controlNumber, record.Leader(), record.Len())
}
