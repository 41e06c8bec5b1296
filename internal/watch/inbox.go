package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"recipe-planner/internal/recipe"
)

// Handler receives the recipes decoded from one inbox file.
type Handler func(ctx context.Context, path string, recipes []recipe.Recipe) error

// Inbox imports recipe files dropped into a directory.
type Inbox struct {
	dir    string
	handle Handler
	logger *zap.Logger
}

// NewInbox creates the inbox directory if needed.
func NewInbox(dir string, handle Handler, logger *zap.Logger) (*Inbox, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create inbox %s: %w", dir, err)
	}
	return &Inbox{dir: dir, handle: handle, logger: logger}, nil
}

// Run processes the files already in the inbox, then every file created or
// rewritten there until ctx is cancelled.
func (in *Inbox) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(in.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", in.dir, err)
	}
	in.logger.Info("watching inbox", zap.String("dir", in.dir))

	if err := in.processExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if recipe.Importable(event.Name) {
				in.ProcessFile(ctx, event.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			in.logger.Error("inbox watcher error", zap.Error(err))
		}
	}
}

func (in *Inbox) processExisting(ctx context.Context) error {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return fmt.Errorf("failed to list inbox: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && recipe.Importable(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for _, name := range names {
		in.ProcessFile(ctx, filepath.Join(in.dir, name))
	}
	return nil
}

// ProcessFile decodes one file and hands its recipes to the handler. Failures
// are logged; a half-written file is picked up again on its next write event.
func (in *Inbox) ProcessFile(ctx context.Context, path string) bool {
	res, err := recipe.ReadFile(path)
	if err != nil {
		in.logger.Warn("skipping inbox file", zap.String("path", path), zap.Error(err))
		return false
	}
	for _, skipped := range res.Skipped {
		in.logger.Warn("skipping invalid recipe", zap.String("path", path), zap.Error(skipped))
	}
	if len(res.Recipes) == 0 {
		return false
	}
	if err := in.handle(ctx, path, res.Recipes); err != nil {
		in.logger.Error("failed to import inbox file", zap.String("path", path), zap.Error(err))
		return false
	}
	in.logger.Info("imported inbox file", zap.String("path", path), zap.Int("recipes", len(res.Recipes)))
	return true
}
