package main

import (
	"context"
	"flag"
	"log"
	"os"

	sitecms "github.com/magvolt/sitecms"
	mediacmd "github.com/magvolt/sitecms/internal/commands/media"
	"github.com/magvolt/sitecms/internal/logging"
)

func main() {
	if err := runCleanup(os.Args[1:]); err != nil {
		log.Fatalf("media cleanup: %v", err)
	}
}

func runCleanup(args []string) error {
	fs := flag.NewFlagSet("media-cleanup", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Report orphaned objects without deleting them")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sitecms.ConfigFromEnv()
	if err != nil {
		return err
	}

	module, err := sitecms.New(cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	ctx := context.Background()

	handler := mediacmd.NewCleanupOrphansHandler(
		module.Media(),
		module.Objects(),
		liveImageSources(module),
		logging.MediaLogger(module.Container().LoggerProvider()),
	)

	return handler.Execute(ctx, mediacmd.CleanupOrphansCommand{DryRun: *dryRun})
}

// liveImageSources enumerates every URL an entity can reference so the
// cleanup pass never touches an image still in use.
func liveImageSources(module *sitecms.Module) []mediacmd.URLSource {
	return []mediacmd.URLSource{
		func(ctx context.Context) ([]string, error) {
			records, err := module.Blogs().List(ctx, true)
			if err != nil {
				return nil, err
			}
			urls := make([]string, 0, len(records))
			for _, record := range records {
				if record.Image != "" {
					urls = append(urls, record.Image)
				}
			}
			return urls, nil
		},
		func(ctx context.Context) ([]string, error) {
			records, err := module.Products().List(ctx, true)
			if err != nil {
				return nil, err
			}
			var urls []string
			for _, record := range records {
				urls = append(urls, record.Images...)
			}
			return urls, nil
		},
		func(ctx context.Context) ([]string, error) {
			records, err := module.Offerings().List(ctx, true)
			if err != nil {
				return nil, err
			}
			var urls []string
			for _, record := range records {
				urls = append(urls, record.Images...)
			}
			return urls, nil
		},
		func(ctx context.Context) ([]string, error) {
			records, err := module.Team().List(ctx, true)
			if err != nil {
				return nil, err
			}
			var urls []string
			for _, record := range records {
				if record.Image != "" {
					urls = append(urls, record.Image)
				}
			}
			return urls, nil
		},
	}
}
