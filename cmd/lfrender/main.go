/*
DESCRIPTION
  lfrender is the command-line driver for the plenoptic multi-view
  rendering engine: it loads a calibration file, opens an input YUV420p
  stream, and for every frame in [-b, -e) writes one output YUV file per
  requested view.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// lfrender renders a plenoptic camera's raw YUV420p frames into a grid of
// multi-view output videos.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/lightfield/config"
	"github.com/ausocean/lightfield/manager"
	"github.com/ausocean/lightfield/psize"
	"github.com/ausocean/lightfield/yuvio"
	"github.com/ausocean/utils/logging"
)

// Logging configuration, matching the teacher's rv command's lumberjack
// setup.
const (
	logPath      = "lfrender.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "lfrender: "

func main() {
	input := flag.String("i", "", "input YUV420p file (required)")
	outDir := flag.String("o", "", "output directory (required)")
	firstFrame := flag.Int("b", 0, "first frame index, inclusive")
	lastFrame := flag.Int("e", 1, "one-past-last frame index, exclusive")
	views := flag.Int("views", 1, "V in the V x V output view grid")
	upsample := flag.Int("upsample", 1, "working-resolution scale factor")
	minPsize := flag.Float64("minPsize", 0.2, "lower patchsize bound, as a fraction of MI diameter")
	psizeInflate := flag.Float64("psizeInflate", 2.15, "scale applied to estimated patchsize during extraction")
	viewShiftRange := flag.Float64("viewShiftRange", 0.1, "fraction of MI diameter reserved for view shift")
	psizeShortcutThreshold := flag.Int("psizeShortcutThreshold", 4, "maximum dhash Hamming distance for temporal patchsize reuse")
	dumpPsize := flag.String("dumpPsize", "", "if set, dump the final frame's patchsize records to this path")
	loadPsize := flag.String("loadPsize", "", "if set, seed the first frame's patchsize cache from this path")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *input == "" || *outDir == "" || flag.NArg() != 1 {
		log.Error(pkg + "-i, -o, and a calibration file argument are required")
		fmt.Fprintln(os.Stderr, "usage: lfrender -i <input.yuv> -o <outdir> [flags] calib.cfg")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(log, flag.Arg(0))
	if err != nil {
		log.Error(pkg+"could not load calibration", "error", err.Error())
		os.Exit(1)
	}
	cfg.InputPath = *input
	cfg.OutputDir = *outDir
	cfg.FirstFrame = *firstFrame
	cfg.LastFrame = *lastFrame
	cfg.Views = *views
	cfg.Upsample = *upsample
	cfg.MinPsizeFraction = *minPsize
	cfg.PsizeInflate = *psizeInflate
	cfg.ViewShiftRangeFraction = *viewShiftRange
	cfg.PsizeShortcutThreshold = *psizeShortcutThreshold
	cfg.DumpPsizePath = *dumpPsize
	cfg.LoadPsizePath = *loadPsize

	if err := cfg.Validate(); err != nil {
		log.Error(pkg+"invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	if err := run(log, cfg); err != nil {
		log.Error(pkg+"run failed", "error", err.Error())
		os.Exit(2)
	}
}

// loadConfig reads and parses the calibration file at path into a fresh
// Config carrying log.
func loadConfig(log logging.Logger, path string) (config.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return config.Config{}, err
	}
	defer f.Close()

	vars, err := config.LoadCalib(f)
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.Config{Logger: log}
	cfg.Update(vars)
	return cfg, nil
}

// run drives the frame-range loop: open the reader and per-view writers,
// then push every frame in [cfg.FirstFrame, cfg.LastFrame) through the
// Manager, writing each rendered view as it's produced.
func run(log logging.Logger, cfg config.Config) error {
	m, err := manager.New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if cfg.LoadPsizePath != "" {
		if err := psize.LoadRecords(m.Bridge(), cfg.LoadPsizePath); err != nil {
			return err
		}
	}

	reader, err := yuvio.NewReader(log, cfg.InputPath, m.RawExtent())
	if err != nil {
		return err
	}
	defer reader.Close()
	if err := reader.Skip(cfg.FirstFrame); err != nil {
		return err
	}

	outW, outH := m.OutputSize()
	writers := make(map[int]*yuvio.Writer, cfg.Views*cfg.Views)
	defer func() {
		for _, w := range writers {
			w.Close()
		}
	}()
	for viewRow := 0; viewRow < cfg.Views; viewRow++ {
		for viewCol := 0; viewCol < cfg.Views; viewCol++ {
			i := viewRow*cfg.Views + viewCol
			w, err := yuvio.NewWriter(cfg.OutputDir, yuvio.ViewFileName(viewRow, viewCol, cfg.Views, outW, outH))
			if err != nil {
				return err
			}
			writers[i] = w
		}
	}

	src, err := yuvio.NewFrame(m.RawExtent())
	if err != nil {
		return err
	}
	defer src.Close()

	for frame := cfg.FirstFrame; frame < cfg.LastFrame; frame++ {
		if err := reader.ReadInto(src); err != nil {
			return err
		}
		log.Debug("rendering frame", "frame", frame)
		err := m.RenderFrame(src, func(viewRow, viewCol int, dst *yuvio.Frame) error {
			i := viewRow*cfg.Views + viewCol
			return writers[i].Write(dst)
		})
		if err != nil {
			return err
		}
	}

	if cfg.DumpPsizePath != "" {
		rows, maxCols := m.BridgeDims()
		if err := psize.DumpRecords(m.Bridge(), rows, maxCols, cfg.DumpPsizePath); err != nil {
			return err
		}
	}

	log.Info(pkg+"done", "frames", cfg.LastFrame-cfg.FirstFrame, "views", cfg.Views*cfg.Views)
	return nil
}
