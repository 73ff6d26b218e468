package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/core/sfx"
	"github.com/zeusync/ultrapong/pkg/concurrent"
	"github.com/zeusync/ultrapong/pkg/sequence"
)

func main() {
	out := flag.String("out", ".", "directory the WAV files are written to")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	lvl, err := log.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := log.New(lvl)
	defer func() { _ = logger.Sync() }()

	if err := generate(context.Background(), *out, sfx.DefaultBank(), logger); err != nil {
		logger.Fatal("Generating sound effects failed", log.Error(err))
	}
}

// generate writes one <name>.wav per cue of bank into dir.
func generate(ctx context.Context, dir string, bank *sfx.Bank, logger log.Log) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tones := bank.Named()
	names := slices.Sorted(maps.Keys(tones))

	return concurrent.Concurrent(ctx, sequence.From(names), 0, func(_ context.Context, name string) error {
		path := filepath.Join(dir, name+".wav")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := sfx.WriteWAV(f, tones[name]); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("Wrote sound effect",
			log.String("file", path),
			log.Stringer("waveform", tones[name].Waveform),
			log.Float32("frequency", tones[name].Frequency),
			log.Float32("duration", tones[name].Duration))
		return nil
	})
}
