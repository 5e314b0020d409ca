package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	sitecms "github.com/magvolt/sitecms"
	blogscmd "github.com/magvolt/sitecms/internal/commands/blogs"
	"github.com/magvolt/sitecms/internal/logging"
)

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("blog import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("blog-import", flag.ExitOnError)
	dir := fs.String("dir", "content", "Path to the markdown content root")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")

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

	if err := sitecms.EnsureSchema(ctx, module.DB()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	handler := blogscmd.NewImportHandler(
		module.Container().BlogRepository(),
		logging.BlogsLogger(module.Container().LoggerProvider()),
	)

	return handler.Execute(ctx, blogscmd.ImportCommand{
		Dir:    *dir,
		DryRun: *dryRun,
	})
}
