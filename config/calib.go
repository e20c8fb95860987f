/*
DESCRIPTION
  calib.go parses a calib.cfg file (spec.md §6.2): one `key: value` pair
  per line, `#`-prefixed comment lines ignored, into a Config.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/lightfield/geom"
)

// Calibration file keys (spec.md §6.2).
const (
	KeyIsKepler              = "IsKepler"
	KeyIsMultiFocus          = "IsMultiFocus"
	KeyLensletWidth          = "LensletWidth"
	KeyLensletHeight         = "LensletHeight"
	KeyMIDiameter            = "MIDiameter"
	KeyMLADirection          = "MLADirection"
	KeyLeftTopMICenterX      = "LeftTopMICenterX"
	KeyLeftTopMICenterY      = "LeftTopMICenterY"
	KeyRightTopMICenterX     = "RightTopMICenterX"
	KeyRightTopMICenterY     = "RightTopMICenterY"
	KeyLeftBottomMICenterX   = "LeftBottomMICenterX"
	KeyLeftBottomMICenterY   = "LeftBottomMICenterY"
	KeyRightBottomMICenterX  = "RightBottomMICenterX"
	KeyRightBottomMICenterY  = "RightBottomMICenterY"
	KeyCentralMIOffsetX      = "CentralMIOffsetX"
	KeyCentralMIOffsetY      = "CentralMIOffsetY"
	KeyNearFocalLenType      = "NearFocalLenType"

	// Supplemented keys (SPEC_FULL.md SUPPLEMENTED FEATURES).
	KeyEstimatorKind       = "EstimatorKind"
	KeyPsizeShortcutFactor = "PsizeShortcutFactor"
	KeyPipelineTag         = "PipelineTag"
)

// LoadCalib parses a calib.cfg stream into vars, a flat string-keyed map
// suitable for Config.Update. Lines starting with `#`, and blank lines,
// are ignored; every other line must be `key: value`.
func LoadCalib(r io.Reader) (map[string]string, error) {
	vars := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, errkind.Wrapf(errkind.InvalidParam, "calib.cfg: malformed line %q", line)
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		vars[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, errkind.Wrap(errkind.FileSysError, err.Error())
	}
	return vars, nil
}

// applyKeyTable sets c's calibration fields from vars, ignoring keys that
// fail to parse rather than erroring the whole load (matching the
// teacher's per-variable Update function table in revid/config/variables.go,
// where each field update is independent).
func applyKeyTable(c *Config, vars map[string]string) {
	boolVal := func(k string) (bool, bool) {
		s, ok := vars[k]
		if !ok {
			return false, false
		}
		return s == "1" || strings.EqualFold(s, "true"), true
	}
	floatVal := func(k string) (float64, bool) {
		s, ok := vars[k]
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	intVal := func(k string) (int, bool) {
		s, ok := vars[k]
		if !ok {
			return 0, false
		}
		v, err := strconv.Atoi(s)
		return v, err == nil
	}

	if v, ok := boolVal(KeyIsKepler); ok {
		c.IsKepler = v
	}
	if v, ok := boolVal(KeyIsMultiFocus); ok {
		c.IsMultiFocus = v
	}
	if v, ok := intVal(KeyLensletWidth); ok {
		c.LensletWidth = v
	}
	if v, ok := intVal(KeyLensletHeight); ok {
		c.LensletHeight = v
	}
	if v, ok := floatVal(KeyMIDiameter); ok {
		c.MIDiameter = v
	}
	if v, ok := boolVal(KeyMLADirection); ok {
		c.MLADirection = v
	}

	haveCorners := false
	if v, ok := floatVal(KeyLeftTopMICenterX); ok {
		c.LeftTopMICenterX = v
		haveCorners = true
	}
	if v, ok := floatVal(KeyLeftTopMICenterY); ok {
		c.LeftTopMICenterY = v
	}
	if v, ok := floatVal(KeyRightTopMICenterX); ok {
		c.RightTopMICenterX = v
	}
	if v, ok := floatVal(KeyRightTopMICenterY); ok {
		c.RightTopMICenterY = v
	}
	if v, ok := floatVal(KeyLeftBottomMICenterX); ok {
		c.LeftBottomMICenterX = v
	}
	if v, ok := floatVal(KeyLeftBottomMICenterY); ok {
		c.LeftBottomMICenterY = v
	}
	if v, ok := floatVal(KeyRightBottomMICenterX); ok {
		c.RightBottomMICenterX = v
	}
	if v, ok := floatVal(KeyRightBottomMICenterY); ok {
		c.RightBottomMICenterY = v
	}
	if haveCorners {
		c.haveCorners = true
	}

	if v, ok := floatVal(KeyCentralMIOffsetX); ok {
		c.CentralMIOffsetX = v
		c.haveOffset = true
	}
	if v, ok := floatVal(KeyCentralMIOffsetY); ok {
		c.CentralMIOffsetY = v
	}

	if v, ok := intVal(KeyNearFocalLenType); ok {
		c.NearFocalLenType = geom.NearFocalLenType(v)
	}

	if v, ok := intVal(KeyEstimatorKind); ok {
		c.EstimatorKind = EstimatorKind(v)
	}
	if v, ok := floatVal(KeyPsizeShortcutFactor); ok {
		c.PsizeShortcutFactor = v
	}
	if v, ok := intVal(KeyPipelineTag); ok {
		c.PipelineTag = PipelineTag(v)
	}
}

// BuildArrange constructs the geom.Arrange c's calibration fields
// describe, dispatching on whichever arrangement field group was set
// (spec.md §3 "Two concrete variants").
func (c *Config) BuildArrange() geom.Arrange {
	size := geom.Size{W: c.LensletWidth, H: c.LensletHeight}
	if c.haveCorners {
		return geom.NewCornersArrange(
			size, c.MIDiameter, c.MLADirection,
			geom.Point{X: c.LeftTopMICenterX, Y: c.LeftTopMICenterY},
			geom.Point{X: c.RightTopMICenterX, Y: c.RightTopMICenterY},
			geom.Point{X: c.LeftBottomMICenterX, Y: c.LeftBottomMICenterY},
			geom.Point{X: c.RightBottomMICenterX, Y: c.RightBottomMICenterY},
			c.IsKepler, c.IsMultiFocus, int(c.NearFocalLenType),
		)
	}
	return geom.NewOffsetArrange(
		size, c.MIDiameter, c.MLADirection,
		geom.Point{X: c.CentralMIOffsetX, Y: c.CentralMIOffsetY},
		c.IsKepler, c.IsMultiFocus, int(c.NearFocalLenType),
	)
}
