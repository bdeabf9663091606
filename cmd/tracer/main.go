// Command tracer renders a scene file with the path-tracing or SPPM
// estimator and writes the result as a PNG.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/df07/cg-tracing/pkg/render"
	"github.com/df07/cg-tracing/pkg/scene"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		scenePath     string
		outPath       string
		workers       int
		cpuProfile    string
		checkpointDir string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene file with the PT or SPPM estimator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(scenePath, outPath, workers, cpuProfile, checkpointDir)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&scenePath, "scene", "", "path to the scene JSON file (required)")
	flags.StringVar(&outPath, "out", "out.png", "output PNG path")
	flags.IntVar(&workers, "workers", 0, "worker thread count (0 = auto-detect CPU count)")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this path")
	flags.StringVar(&checkpointDir, "checkpoint-dir", "", "directory for SPPM per-round checkpoint PNGs (disabled if empty)")
	cobra.CheckErr(cmd.MarkFlagRequired("scene"))

	return cmd
}

func runRender(scenePath, outPath string, workers int, cpuProfile, checkpointDir string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return errors.Wrap(err, "cannot build logger")
	}
	defer logger.Sync() //nolint:errcheck

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return errors.Wrapf(err, "cannot create CPU profile %s", cpuProfile)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "cannot start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	registry := scene.NewRegistry()
	sc, err := scene.Load(scenePath, registry)
	if err != nil {
		return err
	}
	if workers > 0 {
		sc.ThreadNum = workers
	}

	scheduler := &render.Scheduler{Scene: sc, Logger: logger.Sugar(), CheckpointDir: checkpointDir}
	img, err := scheduler.Run(context.Background())
	if err != nil {
		return errors.Wrap(err, "render failed")
	}

	if err := img.SavePNG(outPath); err != nil {
		return err
	}
	logger.Info("wrote output", zap.String("path", outPath))
	return nil
}
