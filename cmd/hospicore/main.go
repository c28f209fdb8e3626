// Command hospicore manages the embedded hospital document store: seeding,
// statistics, snapshot export/import and archive operations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"hospicore/internal/archive"
	"hospicore/internal/config"
	"hospicore/internal/core"
)

func main() {
	os.Exit(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(stderr io.Writer) {
	fmt.Fprintln(stderr, "usage: hospicore <stats|seed|export|import|archive|archives|restore> [flags]")
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	logger := core.NewSlogLogger(slog.New(slog.NewTextHandler(stderr, nil)))
	cfg := config.Load()
	store, backend, err := core.OpenStore(cfg.Storage, logger)
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}
	defer func() {
		if closer, ok := backend.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	ctx := context.Background()
	switch args[0] {
	case "stats":
		return runStats(store, stdout, stderr)
	case "seed":
		return runSeed(args[1:], store, stdout, stderr)
	case "export":
		return runExport(ctx, args[1:], cfg, store, stdout, stderr)
	case "import":
		return runImport(args[1:], store, stdout, stderr)
	case "archive":
		return runArchive(ctx, cfg, store, stdout, stderr)
	case "archives":
		return runArchives(ctx, cfg, store, stdout, stderr)
	case "restore":
		return runRestore(ctx, args[1:], cfg, store, stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func runStats(store *core.Store, stdout, stderr io.Writer) int {
	queries := core.NewQueries(store)
	stats := queries.Statistics(time.Now().Format("2006-01-02"))

	collections := make([]string, 0, len(stats.Counts))
	for collection := range stats.Counts {
		collections = append(collections, collection)
	}
	sort.Strings(collections)
	for _, collection := range collections {
		fmt.Fprintf(stdout, "%-15s %d\n", collection, stats.Counts[collection])
	}
	fmt.Fprintf(stdout, "available rooms:      %d\n", stats.AvailableRooms)
	fmt.Fprintf(stdout, "low-stock items:      %d\n", stats.LowStockMedicaments)
	fmt.Fprintf(stdout, "appointments today:   %d\n", stats.AppointmentsToday)
	fmt.Fprintf(stdout, "invoiced revenue:     %.2f\n", stats.Revenue)
	return 0
}

func runSeed(args []string, store *core.Store, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file string
	fs.StringVar(&file, "f", "", "seed snapshot file (default: built-in sample data)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	seed := core.SampleSnapshot()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "read seed file: %v\n", err)
			return 1
		}
		if err := json.Unmarshal(data, &seed); err != nil {
			fmt.Fprintf(stderr, "parse seed file: %v\n", err)
			return 1
		}
	}
	if store.LoadSeed(seed) {
		fmt.Fprintln(stdout, "seeded empty collections")
	} else {
		fmt.Fprintln(stdout, "nothing to seed, collections already populated")
	}
	return 0
}

func runExport(ctx context.Context, args []string, cfg config.Config, store *core.Store, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var out string
	var toArchive bool
	fs.StringVar(&out, "o", "", "write snapshot to file instead of stdout")
	fs.BoolVar(&toArchive, "archive", false, "ship snapshot to the configured archive")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if toArchive {
		return runArchive(ctx, cfg, store, stdout, stderr)
	}
	data, err := store.ExportJSON()
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	if out == "" {
		fmt.Fprintln(stdout, string(data))
		return 0
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(stderr, "write snapshot: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "snapshot written to %s\n", out)
	return 0
}

func runImport(args []string, store *core.Store, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var in string
	fs.StringVar(&in, "i", "", "snapshot file to import")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if in == "" {
		fmt.Fprintln(stderr, "import requires -i <file>")
		return 2
	}
	data, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(stderr, "read snapshot: %v\n", err)
		return 1
	}
	if err := store.ImportJSON(data); err != nil {
		fmt.Fprintf(stderr, "import: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "snapshot imported")
	return 0
}

func openArchive(ctx context.Context, cfg config.Config) (archive.Store, error) {
	return archive.Open(ctx, cfg.Archive)
}

func runArchive(ctx context.Context, cfg config.Config, store *core.Store, stdout, stderr io.Writer) int {
	backend, err := openArchive(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "open archive: %v\n", err)
		return 1
	}
	info, err := core.NewArchiver(store, backend).Archive(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "archive: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "archived %s (%d bytes)\n", info.Key, info.Size)
	return 0
}

func runArchives(ctx context.Context, cfg config.Config, store *core.Store, stdout, stderr io.Writer) int {
	backend, err := openArchive(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "open archive: %v\n", err)
		return 1
	}
	infos, err := core.NewArchiver(store, backend).List(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "list archives: %v\n", err)
		return 1
	}
	for _, info := range infos {
		fmt.Fprintf(stdout, "%s  %d bytes  %s\n", info.Key, info.Size, info.CreatedAt.Format(time.RFC3339))
	}
	return 0
}

func runRestore(ctx context.Context, args []string, cfg config.Config, store *core.Store, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var key string
	fs.StringVar(&key, "key", "", "archived snapshot key")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if key == "" {
		fmt.Fprintln(stderr, "restore requires -key <snapshot key>")
		return 2
	}
	backend, err := openArchive(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "open archive: %v\n", err)
		return 1
	}
	if err := core.NewArchiver(store, backend).Restore(ctx, key); err != nil {
		fmt.Fprintf(stderr, "restore: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "restored snapshot %s\n", key)
	return 0
}
