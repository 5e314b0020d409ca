package mediacmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/magvolt/sitecms/internal/commands"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/internal/media"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

const cleanupOrphansMessageType = "site.media.cleanup_orphans"

// URLSource yields the image URLs a subsystem currently references. The
// cleanup command unions every source to decide which stored objects are
// still live.
type URLSource func(ctx context.Context) ([]string, error)

// CleanupOrphansCommand removes stored objects no entity references any
// longer. Orphans accumulate because old-image deletes during replacement
// are best effort.
type CleanupOrphansCommand struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (CleanupOrphansCommand) Type() string { return cleanupOrphansMessageType }

// CleanupOrphansHandler sweeps unreferenced objects using the shared command
// handler foundation.
type CleanupOrphansHandler struct {
	inner *commands.Handler[CleanupOrphansCommand]
}

// NewCleanupOrphansHandler constructs a handler over the media pipeline and
// the URL sources that define liveness.
func NewCleanupOrphansHandler(service media.Service, store interfaces.ObjectStorage, sources []URLSource, logger interfaces.Logger, opts ...commands.HandlerOption[CleanupOrphansCommand]) *CleanupOrphansHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CleanupOrphansCommand) error {
		stored, err := service.StoredPaths(ctx)
		if err != nil {
			return err
		}

		live := make(map[string]struct{})
		for _, source := range sources {
			urls, err := source(ctx)
			if err != nil {
				return err
			}
			for _, url := range urls {
				if path, ok := store.ObjectPath(url); ok {
					live[path] = struct{}{}
				}
			}
		}

		removed := 0
		for _, path := range stored {
			if _, referenced := live[path]; referenced {
				continue
			}
			if msg.DryRun {
				baseLogger.Info("media.cleanup.would_remove", "path", path)
				removed++
				continue
			}
			if err := store.Delete(ctx, path); err != nil {
				return err
			}
			baseLogger.Info("media.cleanup.removed", "path", path)
			removed++
		}

		logging.WithFields(baseLogger, map[string]any{
			"stored":  len(stored),
			"live":    len(live),
			"removed": removed,
			"dry_run": msg.DryRun,
		}).Info("media.cleanup.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CleanupOrphansCommand]{
		commands.WithLogger[CleanupOrphansCommand](baseLogger),
		commands.WithOperation[CleanupOrphansCommand]("media.cleanup_orphans"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanupOrphansHandler{
		inner: commands.NewHandler[CleanupOrphansCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanupOrphansCommand].
func (h *CleanupOrphansHandler) Execute(ctx context.Context, msg CleanupOrphansCommand) error {
	return h.inner.Execute(ctx, msg)
}

var _ command.Commander[CleanupOrphansCommand] = (*CleanupOrphansHandler)(nil)
