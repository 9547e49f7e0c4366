package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-abi/common"
	"github.com/Carmen-Shannon/oxy-abi/engine/abi"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/config"
	"github.com/fsnotify/fsnotify"
)

// options holds the parsed command line.
type options struct {
	configPath string
	revision   int
	out        string
	check      bool
	watch      bool
	init       bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("abigen", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML or TOML configuration file")
	fs.IntVar(&o.revision, "revision", 0, "pipeline revision, overrides the configuration (0 keeps it)")
	fs.StringVar(&o.out, "out", "", "header output path, overrides the configuration")
	fs.BoolVar(&o.check, "check", false, "verify records, binding table and header, exit non-zero on mismatch")
	fs.BoolVar(&o.watch, "watch", false, "regenerate whenever the configuration file changes")
	fs.BoolVar(&o.init, "init", false, "write the default configuration to -config and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if (o.watch || o.init) && o.configPath == "" {
		return options{}, errors.New("-watch and -init need -config")
	}
	return o, nil
}

func run(ctx context.Context, args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	if o.init {
		if err := config.Save(config.Default(), o.configPath); err != nil {
			return err
		}
		log.Printf("[abigen] wrote default configuration to %s", o.configPath)
		return nil
	}

	if err := o.generate(); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}
	return watch(ctx, o.configPath, o.generate)
}

// resolve loads the configuration and applies the command line overrides.
func (o options) resolve() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg.Revision = common.Coalesce(o.revision, cfg.Revision)
	cfg.Output = common.Coalesce(o.out, cfg.Output)
	return cfg, cfg.Validate()
}

// generate writes the header and, with -check, verifies it.
func (o options) generate() error {
	cfg, err := o.resolve()
	if err != nil {
		return err
	}
	rev := cfg.BindingRevision()

	if o.check {
		if err := checkRevision(rev, cfg.Output); err != nil {
			return err
		}
	}

	header, err := abi.Header(rev)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(cfg.Output, []byte(header), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", cfg.Output, err)
	}
	log.Printf("[abigen] wrote %s header to %s (%d bytes)", rev, cfg.Output, len(header))
	return nil
}

// checkRevision runs the record and table checks of rev and, when a previously
// generated header exists at path, checks its declarations against the table.
func checkRevision(rev binding.Revision, path string) error {
	if err := abi.Check(rev); err != nil {
		return fmt.Errorf("check %s: %w", rev, err)
	}
	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %q: %w", path, err)
	default:
		if err := abi.CheckSource(rev, string(existing)); err != nil {
			return fmt.Errorf("check %s: %w", path, err)
		}
	}
	log.Printf("[abigen] %s ok", rev)
	return nil
}

// watch calls regenerate whenever the file at path is written or replaced, until ctx is
// done. The parent directory is watched so editors that save by rename are seen.
// Regeneration errors are logged and do not stop the watch.
func watch(ctx context.Context, path string, regenerate func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	log.Printf("[abigen] watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := regenerate(); err != nil {
				log.Printf("[abigen] %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[abigen] watch: %v", err)
		}
	}
}
