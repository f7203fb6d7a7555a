// Command oneshot generates one-shot event consumption code for marked
// struct fields.
//
// Usage:
//
//	oneshot -target ./internal/oneshotgen -package github.com/org/app/internal/oneshotgen ./...
//
// A oneshot.yaml file in the working directory supplies defaults; flags
// override it. With -watch the command keeps running and regenerates
// whenever a contributing source file changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/oneshot/compiler/gen"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "oneshot: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("oneshot", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "project config file (default oneshot.yaml if present)")
		target     = fs.String("target", "", "output directory for generated files")
		pkg        = fs.String("package", "", "generated package import path")
		header     = fs.String("header", "", "override the generated-file header comment")
		workers    = fs.Int("workers", 0, "parallel group workers (default GOMAXPROCS)")
		rounds     = fs.Int("rounds", 0, "deferred-symbol round budget (default 3)")
		watch      = fs.Bool("watch", false, "regenerate when contributing source files change")
		verbose    = fs.Bool("v", false, "print informational diagnostics")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts, err := projectOptions(*configPath)
	if err != nil {
		return err
	}
	if patterns := fs.Args(); len(patterns) > 0 {
		opts = append(opts, gen.WithPatterns(patterns...))
	}
	if *target != "" {
		opts = append(opts, gen.WithTarget(*target))
	}
	if *pkg != "" {
		opts = append(opts, gen.WithPackage(*pkg))
	}
	if *header != "" {
		opts = append(opts, gen.WithHeader(*header))
	}
	if *workers > 0 {
		opts = append(opts, gen.WithWorkers(*workers))
	}
	if *rounds > 0 {
		opts = append(opts, gen.WithRounds(*rounds))
	}

	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	g := gen.NewGenerator(cfg)
	if err := generate(ctx, g, cfg, *verbose); err != nil {
		return err
	}
	if !*watch {
		return failedGroups(cfg)
	}
	return watchLoop(ctx, g, cfg, *verbose)
}

// projectOptions loads the project file when present. An explicitly named
// config must exist; the default one is optional.
func projectOptions(path string) ([]gen.Option, error) {
	explicit := path != ""
	if path == "" {
		path = gen.ProjectFile
	}
	p, err := gen.LoadProject(path)
	if err != nil {
		if explicit {
			return nil, err
		}
		return nil, nil
	}
	return p.Options(), nil
}

func generate(ctx context.Context, g *gen.Generator, cfg *gen.Config, verbose bool) error {
	if err := g.Generate(ctx); err != nil {
		return err
	}
	if c, ok := cfg.Sink.(*gen.Collector); ok {
		for _, d := range c.All() {
			if d.Severity != gen.Info || verbose {
				fmt.Fprintln(os.Stderr, d)
			}
		}
	}
	return nil
}

func failedGroups(cfg *gen.Config) error {
	c, ok := cfg.Sink.(*gen.Collector)
	if !ok {
		return nil
	}
	if errs := c.Errors(); len(errs) > 0 {
		return fmt.Errorf("%d diagnostic(s) reported", len(errs))
	}
	return nil
}

// watchLoop re-runs generation whenever a Go file in a contributing source
// directory changes. Events are debounced; bursts from editors and
// formatters collapse into one run.
func watchLoop(ctx context.Context, g *gen.Generator, cfg *gen.Config, verbose bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	addDirs := func() {
		for _, dir := range g.Writer().SourceDirs() {
			if !watched[dir] {
				if watcher.Add(dir) == nil {
					watched[dir] = true
				}
			}
		}
	}
	addDirs()
	fmt.Fprintf(os.Stderr, "oneshot: watching %d directories\n", len(watched))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			debounce = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "oneshot: watch: %v\n", err)
		case <-debounce:
			debounce = nil
			cfg.Sink = &gen.Collector{} // fresh diagnostics per run
			if err := generate(ctx, g, cfg, verbose); err != nil {
				fmt.Fprintf(os.Stderr, "oneshot: %v\n", err)
			}
			addDirs()
		}
	}
}

// relevant filters watch events down to Go source edits, ignoring
// generated output and editor temp files.
func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.HasSuffix(name, "_consume.go") && !strings.HasSuffix(name, "_dispatch.go")
}
