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

package cat

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/internal"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type conf struct {
	recordCount int
	strict      bool
	raw         bool
	noColor     bool
	fileName    string
	id          []string
}

var (
	tagColor     = color.New(color.FgCyan, color.Bold)
	controlColor = color.New(color.FgYellow)
	warnColor    = color.New(color.FgRed)
)

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "cat FILE",
		Short: "Print records from a flat MARC file",
		Long:  `Print records in a human readable form, or in flat text form with --raw. Use - to read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileName = args[0]
			if c.noColor {
				color.NoColor = true
			}
			return runE(cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "The maximum number of records to show")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "strict parsing")
	cmd.Flags().BoolVar(&c.raw, "raw", false, "print records in flat text form")
	cmd.Flags().BoolVar(&c.noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringArrayVar(&c.id, "id", []string{}, "specify control numbers (001) of records to print")

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
		if len(c.id) > 0 && !internal.Contains(c.id, record.ControlNumber()) {
			continue
		}
		count++

		if c.raw {
			raw, err := record.ToRaw()
			if err != nil {
				return errors.Wrapf(err, "rec num: %d, offset %d", count, offset)
			}
			_, _ = fmt.Fprintln(out, strings.TrimSuffix(raw, string(gomarc.EndOfRecord)))
		} else {
			printRecord(out, record)
		}
		if !validation.Valid() {
			_, _ = warnColor.Fprint(out, validation.String())
		}
		_, _ = fmt.Fprintln(out)

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	return nil
}

func printRecord(out io.Writer, record *gomarc.Record) {
	_, _ = fmt.Fprintf(out, "%s %s\n", tagColor.Sprint("LDR"), record.Leader())
	for _, f := range record.Fields() {
		s := f.String()
		switch f.(type) {
		case *gomarc.ControlField:
			_, _ = fmt.Fprintf(out, "%s%s\n", tagColor.Sprint(f.Tag()), controlColor.Sprint(s[len(f.Tag()):]))
		case *gomarc.DataField:
			_, _ = fmt.Fprintf(out, "%s%s\n", tagColor.Sprint(f.Tag()), s[len(f.Tag()):])
		}
	}
}
