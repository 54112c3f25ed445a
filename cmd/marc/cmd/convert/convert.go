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

package convert

import (
	"io"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/cmd/marc/internal"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	fileName    string
	dir         string
	prefix      string
	pattern     string
	maxFileSize int64
	compress    bool
	strict      bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "convert FILE",
		Short: "Decode records and write them to new record files",
		Long: `Decode every record in FILE and write it in normalized flat text form to record files in --dir.
A new file is started when --max-file-size is reached. Use - to read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "failed to bind flags")
			}
			c.fileName = args[0]
			c.dir = viper.GetString("dir")
			c.prefix = viper.GetString("prefix")
			c.pattern = viper.GetString("name-pattern")
			c.maxFileSize = int64(viper.GetSizeInBytes("max-file-size"))
			c.compress = viper.GetBool("compress")
			c.strict = viper.GetBool("strict")
			return runE(c)
		},
	}

	cmd.Flags().StringP("dir", "d", ".", "directory to write record files to")
	cmd.Flags().StringP("prefix", "p", "", "prefix of written file names")
	cmd.Flags().String("name-pattern", "", `file name pattern (default "%{prefix}s%{ts}s-%04{serial}d-%{host}s.mrk")`)
	cmd.Flags().String("max-file-size", "1GB", "start a new file when this size is reached, 0 for no limit")
	cmd.Flags().BoolP("compress", "z", false, "gzip compress written files")
	cmd.Flags().BoolP("strict", "s", false, "strict parsing")

	return cmd
}

func runE(c *conf) error {
	r, err := internal.OpenReader(c.fileName, c.strict)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	w := gomarc.NewRecordFileWriter(
		gomarc.WithFileNameGenerator(&gomarc.PatternNameGenerator{Directory: c.dir, Prefix: c.prefix, Pattern: c.pattern}),
		gomarc.WithMaxFileSize(c.maxFileSize),
		gomarc.WithCompression(c.compress),
	)
	log.Debugf("Converting %s with %s", c.fileName, w)

	count := 0
	files := map[string]bool{}
	for {
		record, offset, validation, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = w.Close()
			return errors.Wrapf(err, "rec num: %d, offset %d", count+1, offset)
		}
		if !validation.Valid() {
			log.WithFields(log.Fields{
				"offset":  offset,
				"lines":   validation.Lines(),
				"skipped": len(validation.Filter(gomarc.ErrInvalidTag)),
			}).Warnf("%s", validation)
		}

		res := w.Write(record)[0]
		if res.Err != nil {
			_ = w.Close()
			return errors.Wrapf(res.Err, "failed writing record at offset %d", offset)
		}
		files[res.FileName] = true
		count++
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed closing record file")
	}

	log.Infof("Converted %d records into %d files in %s", count, len(files), c.dir)
	return nil
}
