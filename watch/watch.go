// Package watch re-parses a minic source file every time it changes on disk.
package watch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/metaphox/minic/ast"
	"github.com/metaphox/minic/parser"
)

// Handler receives the outcome of every parse: a program or the first error.
type Handler func(path string, prog *ast.Program, err error)

// Watcher owns one fsnotify watcher and the goroutine that drains it.
type Watcher struct {
	path    string
	opts    []parser.Option
	handler Handler
	log     *zap.Logger

	w    *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New parses path once, reports the result to handler and then keeps
// re-parsing it on every write until Close is called.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are followed.
func New(path string, handler Handler, logger *zap.Logger, opts ...parser.Option) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}
	wt := &Watcher{
		path:    abs,
		opts:    opts,
		handler: handler,
		log:     logger.With(zap.String("file", abs)),
		w:       fw,
		done:    make(chan struct{}),
	}
	wt.parse()
	wt.wg.Add(1)
	go wt.loop()
	return wt, nil
}

// Close stops watching and waits for the event loop to exit.
func (wt *Watcher) Close() error {
	var err error
	wt.once.Do(func() {
		close(wt.done)
		err = wt.w.Close()
		wt.wg.Wait()
	})
	return err
}

func (wt *Watcher) loop() {
	defer wt.wg.Done()
	for {
		select {
		case <-wt.done:
			return
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != wt.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			wt.log.Debug("Source changed", zap.Stringer("op", ev.Op))
			wt.parse()
		case err, ok := <-wt.w.Errors:
			if !ok {
				return
			}
			wt.log.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (wt *Watcher) parse() {
	f, err := os.Open(wt.path)
	if err != nil {
		wt.handler(wt.path, nil, errors.Wrapf(err, "failed to open %s", wt.path))
		return
	}
	defer f.Close()
	prog, err := parser.ParseReader(f, wt.opts...)
	wt.handler(wt.path, prog, err)
}
