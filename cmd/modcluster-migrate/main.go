package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/modcluster/pkg/log"
)

var (
	dir        = flag.String("dir", ".", "Directory holding subsystem files")
	pattern    = flag.String("pattern", "*modcluster*.xml", "Glob selecting subsystem files inside -dir")
	dryRun     = flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	backupExt  = flag.String("backup-ext", ".backup", "Suffix of the backup written next to each migrated file")
	indent     = flag.String("indent", "    ", "Indentation of rewritten files")
	jsonOutput = flag.Bool("json", false, "Log in JSON")
)

func main() {
	flag.Parse()

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: *jsonOutput, Output: os.Stderr})
	logger := log.WithComponent("migrate")

	files, err := filepath.Glob(filepath.Join(*dir, *pattern))
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid pattern")
	}
	logger.Info().
		Str("dir", *dir).
		Int("files", len(files)).
		Bool("dry_run", *dryRun).
		Msg("mod_cluster subsystem migration")

	m := &migrator{dryRun: *dryRun, backupExt: *backupExt, indent: *indent}
	var failed int
	for _, path := range files {
		res, err := m.migrate(path)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("path", path).Msg("Migration failed")
			continue
		}
		evt := logger.Info().Str("path", path).Str("from", res.From.String())
		switch {
		case !res.Changed:
			evt.Msg("✓ Already current")
		case *dryRun:
			evt.Msg("[DRY RUN] Would rewrite in the current layout")
		default:
			evt.Str("backup", res.Backup).Msg("✓ Migrated")
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed\n", failed, len(files))
		os.Exit(1)
	}
	if *dryRun {
		logger.Info().Msg("Dry run completed. No changes made.")
	}
}
