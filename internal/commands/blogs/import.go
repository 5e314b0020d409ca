package blogscmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/commands"
	"github.com/magvolt/sitecms/internal/identity"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/internal/markdown"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

const importMessageType = "site.blogs.import"

// ImportCommand seeds blog posts from a directory of Markdown files with
// frontmatter. Imported records carry deterministic ids derived from their
// slug, so re-running the same import never duplicates posts.
type ImportCommand struct {
	Dir    string `json:"dir"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportCommand) Type() string { return importMessageType }

// Validate ensures the command names a source directory.
func (m ImportCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Dir) == "" {
		errs["dir"] = validation.NewError("site.blogs.import.dir_required", "dir must point at a directory of markdown files")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportHandler walks the directory and writes posts through the blog
// repository.
type ImportHandler struct {
	inner *commands.Handler[ImportCommand]
}

// NewImportHandler constructs a handler over the blog repository.
func NewImportHandler(repo blogs.Repository, logger interfaces.Logger, opts ...commands.HandlerOption[ImportCommand]) *ImportHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportCommand) error {
		imported := 0
		skipped := 0

		err := filepath.WalkDir(msg.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
				return nil
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			meta, body, err := markdown.ParseFrontMatter(source)
			if err != nil {
				baseLogger.Warn("blogs.import.skip_malformed", "path", path, "error", err)
				skipped++
				return nil
			}
			if meta.Draft || strings.TrimSpace(meta.Title) == "" {
				skipped++
				return nil
			}

			titleLower := blogs.NormalizeTitle(meta.Title)
			if _, err := repo.GetByTitleLower(ctx, titleLower); err == nil {
				skipped++
				return nil
			} else {
				var notFound *blogs.NotFoundError
				if !errors.As(err, &notFound) {
					return err
				}
			}

			if msg.DryRun {
				baseLogger.Info("blogs.import.would_create", "path", path, "title", meta.Title)
				imported++
				return nil
			}

			slug := blogs.SlugFromTitle(meta.Title)
			createdOn := meta.Date
			if createdOn.IsZero() {
				createdOn = time.Now()
			}
			record := &blogs.Blog{
				ID:         identity.BlogUUID(slug),
				Title:      strings.TrimSpace(meta.Title),
				TitleLower: titleLower,
				Slug:       slug,
				Summary:    strings.TrimSpace(meta.Summary),
				Body:       string(body),
				Category:   strings.ToLower(strings.TrimSpace(meta.Category)),
				Image:      meta.Image,
				CreatedOn:  createdOn,
				UpdatedOn:  createdOn,
			}
			if _, err := repo.Create(ctx, record); err != nil {
				return err
			}
			baseLogger.Info("blogs.import.created", "path", path, "slug", slug)
			imported++
			return nil
		})
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"imported": imported,
			"skipped":  skipped,
			"dry_run":  msg.DryRun,
		}).Info("blogs.import.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportCommand]{
		commands.WithLogger[ImportCommand](baseLogger),
		commands.WithOperation[ImportCommand]("blogs.import"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportHandler{
		inner: commands.NewHandler[ImportCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportCommand].
func (h *ImportHandler) Execute(ctx context.Context, msg ImportCommand) error {
	return h.inner.Execute(ctx, msg)
}

var _ command.Commander[ImportCommand] = (*ImportHandler)(nil)
