/*
DESCRIPTION
  config.go defines Config, the full set of parameters for one lfrender
  run: the CLI-facing flags of spec.md §6.1, plus every calib.cfg key of
  §6.2, resolved and validated together before Manager construction.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package config holds the configuration for one rendering run: CLI flags
// (input/output paths, frame range, view grid, patchsize bounds) and the
// calibration-file-derived camera geometry (arrangement, Kepler/Galilean,
// multi-focus, estimator selection).
package config

import (
	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/utils/logging"
)

// errInvalidArrange is returned by Validate when a calib.cfg sets neither,
// or both, of the four-corner and central-offset arrangement field groups.
var errInvalidArrange = errkind.Wrap(errkind.InvalidParam, "calib.cfg must set exactly one of the four-corner or central-offset MI arrangement fields")

// EstimatorKind selects which patchsize estimator variant a run uses. Both
// variants decide temporal reuse by PsizeShortcutThreshold (a dhash
// Hamming distance); PsizeShortcutFactor is not read by either.
type EstimatorKind int

const (
	EstimatorCensus EstimatorKind = iota
	EstimatorSSIM
)

// PipelineTag names which camera-pipeline family a calibration belongs to,
// carried from the original multi-rig config families (raytrix/tspc). It
// is parsed and stored only: no default, estimator choice or rotation is
// derived from it, and this engine does not special-case physical rig
// behavior beyond what IsKepler/IsMultiFocus/EstimatorKind already express.
type PipelineTag int

const (
	PipelineRaytrix PipelineTag = iota
	PipelineTSPC
)

// Config is the full parameter set for one rendering run. A new Config
// must be passed through Validate before use; Validate fills in defaults
// for zero-valued fields and resolves the Arrange/Estimator selections.
type Config struct {
	// CLI flags (spec.md §6.1).
	InputPath              string
	OutputDir              string
	FirstFrame             int
	LastFrame              int
	Views                  int
	Upsample               int
	MinPsizeFraction       float64
	PsizeInflate           float64
	ViewShiftRangeFraction float64
	PsizeShortcutThreshold int
	DumpPsizePath          string
	LoadPsizePath          string

	// Calibration fields (spec.md §6.2).
	IsKepler     bool
	IsMultiFocus bool

	LensletWidth, LensletHeight int
	MIDiameter                 float64
	MLADirection               bool

	LeftTopMICenterX, LeftTopMICenterY     float64
	RightTopMICenterX, RightTopMICenterY   float64
	LeftBottomMICenterX, LeftBottomMICenterY float64
	RightBottomMICenterX, RightBottomMICenterY float64
	haveCorners                             bool

	CentralMIOffsetX, CentralMIOffsetY float64
	haveOffset                         bool

	NearFocalLenType geom.NearFocalLenType

	EstimatorKind       EstimatorKind
	PsizeShortcutFactor float64
	PipelineTag         PipelineTag

	Logger logging.Logger
}

// Validate checks Config for consistency and fills unset numeric fields
// with their documented defaults (spec.md §6.1 default column), logging
// each default it applies via LogInvalidField, matching the teacher's
// Config.Validate convention.
func (c *Config) Validate() error {
	if c.Views <= 0 {
		c.LogInvalidField("Views", 1)
		c.Views = 1
	}
	if c.Upsample <= 0 {
		c.LogInvalidField("Upsample", 1)
		c.Upsample = 1
	}
	if c.MinPsizeFraction <= 0 {
		c.LogInvalidField("MinPsizeFraction", 0.2)
		c.MinPsizeFraction = 0.2
	}
	if c.PsizeInflate <= 0 {
		c.LogInvalidField("PsizeInflate", 2.15)
		c.PsizeInflate = 2.15
	}
	if c.ViewShiftRangeFraction <= 0 {
		c.LogInvalidField("ViewShiftRangeFraction", 0.1)
		c.ViewShiftRangeFraction = 0.1
	}
	if c.PsizeShortcutThreshold <= 0 {
		c.LogInvalidField("PsizeShortcutThreshold", 4)
		c.PsizeShortcutThreshold = 4
	}
	if c.LastFrame <= c.FirstFrame {
		c.LogInvalidField("LastFrame", c.FirstFrame+1)
		c.LastFrame = c.FirstFrame + 1
	}

	if c.haveCorners == c.haveOffset {
		return errInvalidArrange
	}

	// Open Question 1: an SSIM run gets a default PsizeShortcutFactor when
	// none is set. Neither shortcut field is rejected for either
	// EstimatorKind.
	if c.EstimatorKind == EstimatorSSIM && c.PsizeShortcutFactor <= 0 {
		c.LogInvalidField("PsizeShortcutFactor", 0.98)
		c.PsizeShortcutFactor = 0.98
	}

	return nil
}

// LogInvalidField logs that field name was bad or unset and is being
// defaulted to def, matching the teacher's revid.Config.LogInvalidField.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// Update applies a flat string-keyed map of calib.cfg values onto c,
// matching the teacher's Config.Update(map[string]string) convention.
// Unrecognized keys are ignored.
func (c *Config) Update(vars map[string]string) {
	applyKeyTable(c, vars)
}

// HasCorners reports whether the four-corner arrangement fields were set.
func (c *Config) HasCorners() bool { return c.haveCorners }

// HasOffset reports whether the central-offset arrangement field was set.
func (c *Config) HasOffset() bool { return c.haveOffset }
