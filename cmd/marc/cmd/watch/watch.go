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

package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nlnwa/gomarc"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	dirs     []string
	maxDepth int
	settle   time.Duration
	suffixes []string
	strict   bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "watch DIR...",
		Short: "Watch directories and summarize new record files",
		Long: `Watch one or more directories for new or changed record files. When a file has been quiet for
--settle, its records are read and a summary line is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing directory name")
			}
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "failed to bind flags")
			}
			c.dirs = args
			c.maxDepth = viper.GetInt("max-depth")
			c.settle = viper.GetDuration("settle")
			c.suffixes = viper.GetStringSlice("suffix")
			c.strict = viper.GetBool("strict")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigs)
			go func() {
				select {
				case sig := <-sigs:
					log.Infof("Got signal %v, shutting down", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			return runE(ctx, cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().Int("max-depth", 4, "maximum depth of subdirectories to watch")
	cmd.Flags().Duration("settle", 2*time.Second, "time a file must be unchanged before it is read")
	cmd.Flags().StringSlice("suffix", []string{".mrk", ".mrk.gz", ".mrk.xz"}, "suffixes of files to summarize")
	cmd.Flags().BoolP("strict", "s", false, "strict parsing")

	return cmd
}

type watcher struct {
	*conf
	out     io.Writer
	fsw     *fsnotify.Watcher
	roots   []string
	timers  map[string]*time.Timer
	stopped bool
	timerMx sync.Mutex
	outMx   sync.Mutex
	pending sync.WaitGroup // summaries in progress
}

func runE(ctx context.Context, out io.Writer, c *conf) error {
	w, err := newWatcher(c, out)
	if err != nil {
		return err
	}
	return w.run(ctx)
}

func newWatcher(c *conf, out io.Writer) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	w := &watcher{conf: c, out: out, fsw: fsw, timers: map[string]*time.Timer{}}
	for _, dir := range c.dirs {
		dir = filepath.Clean(dir)
		info, err := os.Stat(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.Wrapf(err, "cannot watch %s", dir)
		}
		if !info.IsDir() {
			_ = fsw.Close()
			return nil, errors.Errorf("cannot watch %s: not a directory", dir)
		}
		w.roots = append(w.roots, dir)
	}
	for _, dir := range w.roots {
		if err := w.addDir(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// run handles file events until ctx is done.
func (w *watcher) run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Watch error: %v", err)
		}
	}
}

// addDir watches dir and its subdirectories down to max depth.
func (w *watcher) addDir(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.depth(path) > w.maxDepth {
			return filepath.SkipDir
		}
		log.Debugf("Watching %s", path)
		return errors.Wrapf(w.fsw.Add(path), "cannot watch %s", path)
	})
}

// depth returns the number of path elements between path and the closest watched root.
func (w *watcher) depth(path string) int {
	best := -1
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		d := 0
		if rel != "." {
			d = len(strings.Split(rel, string(filepath.Separator)))
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func (w *watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDir(event.Name); err != nil {
				log.Warnf("%v", err)
			}
			return
		}
	}
	if !w.accept(event.Name) {
		return
	}

	w.timerMx.Lock()
	defer w.timerMx.Unlock()
	if t, ok := w.timers[event.Name]; ok {
		t.Reset(w.settle)
		return
	}
	name := event.Name
	w.timers[name] = time.AfterFunc(w.settle, func() {
		w.timerMx.Lock()
		if w.stopped {
			w.timerMx.Unlock()
			return
		}
		delete(w.timers, name)
		w.pending.Add(1)
		w.timerMx.Unlock()

		defer w.pending.Done()
		w.summarize(name)
	})
}

func (w *watcher) accept(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	for _, s := range w.suffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	return false
}

// stopTimers cancels waiting summaries and waits for those already started.
func (w *watcher) stopTimers() {
	w.timerMx.Lock()
	w.stopped = true
	for name, t := range w.timers {
		t.Stop()
		delete(w.timers, name)
	}
	w.timerMx.Unlock()

	w.pending.Wait()
}

type summary struct {
	records int
	fields  int
	invalid int
	err     error
}

func (s summary) String() string {
	str := fmt.Sprintf("records: %d, fields: %d, with validation errors: %d", s.records, s.fields, s.invalid)
	if s.err != nil {
		str += ", error: " + s.err.Error()
	}
	return str
}

func (w *watcher) summarize(name string) {
	s := readSummary(name, w.strict)
	if s.err != nil {
		log.Warnf("Failed reading %s: %v", name, s.err)
	} else {
		log.Debugf("Read %s", name)
	}

	w.outMx.Lock()
	defer w.outMx.Unlock()
	_, _ = fmt.Fprintf(w.out, "%s: %s\n", name, s)
}

func readSummary(name string, strict bool) (s summary) {
	r, err := gomarc.NewReader(name, gomarc.SourceFile, gomarc.WithStrict(strict))
	if err != nil {
		s.err = err
		return
	}
	defer func() { _ = r.Close() }()

	for {
		record, offset, validation, err := r.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			s.err = errors.Wrapf(err, "offset %d", offset)
			return
		}
		s.records++
		s.fields += record.Len()
		if !validation.Valid() {
			s.invalid++
		}
	}
}
