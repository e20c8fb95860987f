/*
DESCRIPTION
  manager.go implements the top-level orchestrator of spec.md §4.5: one
  Manager owns the Arrange, CommonCache, PatchMergeBridge, Estimator and
  Renderer for a run, and drives them through the reader's frame range,
  one RenderFrame call per input frame.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package manager wires together geom, mibuf, psize, mview, and yuvio
// into the per-frame rendering pipeline: Common Cache update, patchsize
// estimation, per-view rendering, matching the teacher's revid.Revid
// top-level "own every sub-component, one driver loop" shape.
package manager

import (
	"github.com/ausocean/lightfield/config"
	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/lightfield/mview"
	"github.com/ausocean/lightfield/psize"
	"github.com/ausocean/lightfield/yuvio"
	"github.com/ausocean/utils/logging"
)

// Manager drives the per-frame rendering pipeline for one run: Common
// Cache update, bridge update, then one render per requested view.
// Everything it owns is allocated once in New and reused every frame,
// per spec.md §3's Lifecycle section.
type Manager struct {
	log logging.Logger
	cfg config.Config

	rawExtent  yuvio.Extent
	workArrange geom.Arrange

	cache     *commonCache
	bridge    *psize.Bridge
	estimator psize.Estimator
	renderer  *mview.Renderer
}

// New builds a Manager from cfg, which must already have passed
// Validate. It allocates every reusable buffer the pipeline needs:
// CommonCache's working planes, the PatchMergeBridge, the Estimator's MI
// buffers, and the Renderer's per-channel canvases.
func New(cfg config.Config) (*Manager, error) {
	arrange := cfg.BuildArrange()
	workArrange := arrange.Upsample(cfg.Upsample)

	rawExtent := yuvio.NewYUV420p8Extent(cfg.LensletWidth, cfg.LensletHeight)
	cache, err := newCommonCache(rawExtent, cfg.Upsample, workArrange.Direction())
	if err != nil {
		return nil, err
	}

	bridge := psize.NewBridge(workArrange.MIRows(), workArrange.MIMaxCols())

	psizeParams := psize.Params{
		MinPsize:           workArrange.Diameter() * cfg.MinPsizeFraction,
		MaxPsize:           workArrange.Diameter(),
		ShortcutThreshold:  cfg.PsizeShortcutThreshold,
		ShortcutSSIMFactor: cfg.PsizeShortcutFactor,
	}

	var estimator psize.Estimator
	switch cfg.EstimatorKind {
	case config.EstimatorSSIM:
		estimator = psize.NewSSIMEstimator(cfg.Logger, workArrange, psizeParams)
	default:
		estimator = psize.NewCensusEstimator(cfg.Logger, workArrange, psizeParams)
	}

	renderer := mview.NewRenderer(
		cfg.Logger,
		[3]geom.Arrange{workArrange, workArrange, workArrange},
		cfg.Views, cfg.PsizeInflate, cfg.ViewShiftRangeFraction,
	)

	return &Manager{
		log:         cfg.Logger,
		cfg:         cfg,
		rawExtent:   rawExtent,
		workArrange: workArrange,
		cache:       cache,
		bridge:      bridge,
		estimator:   estimator,
		renderer:    renderer,
	}, nil
}

// Close releases every reusable buffer the Manager owns.
func (m *Manager) Close() {
	m.cache.close()
	m.estimatorClose()
	m.renderer.Close()
}

// estimatorClose closes the Estimator if it exposes a Close method
// (both CensusEstimator and SSIMEstimator do).
func (m *Manager) estimatorClose() {
	if c, ok := m.estimator.(interface{ Close() }); ok {
		c.Close()
	}
}

// RawExtent returns the extent the Manager's Reader must be opened with.
func (m *Manager) RawExtent() yuvio.Extent { return m.rawExtent }

// OutputSize returns the output frame dimensions every rendered view is
// written at.
func (m *Manager) OutputSize() (width, height int) { return m.renderer.OutputSize() }

// Bridge returns the Manager's PatchMergeBridge, for the debug-only
// dump/load patchsize tooling (Open Question 2: never consulted by
// RenderFrame itself).
func (m *Manager) Bridge() *psize.Bridge { return m.bridge }

// BridgeDims returns the (rows, maxCols) a caller needs to iterate every
// slot of Bridge() via psize.DumpRecords.
func (m *Manager) BridgeDims() (rows, maxCols int) {
	return m.workArrange.MIRows(), m.workArrange.MIMaxCols()
}

// RenderFrame runs one full frame through the pipeline (spec.md §4.5):
// Common Cache update, bridge update via the Estimator, then one
// RenderView call per requested view, invoking emit for each rendered
// view's output Frame. emit is responsible for writing or otherwise
// consuming dst before the next view overwrites the Renderer's scratch
// canvases.
func (m *Manager) RenderFrame(src *yuvio.Frame, emit func(viewRow, viewCol int, dst *yuvio.Frame) error) error {
	if err := m.cache.update(src); err != nil {
		return err
	}
	if err := m.estimator.UpdateBridge(&m.cache.work.Y, m.bridge); err != nil {
		return err
	}

	outW, outH := m.renderer.OutputSize()
	dstExtent := yuvio.Extent{YWidth: outW, YHeight: outH, Depth: m.rawExtent.Depth, UShift: m.rawExtent.UShift, VShift: m.rawExtent.VShift}

	for viewRow := 0; viewRow < m.cfg.Views; viewRow++ {
		for viewCol := 0; viewCol < m.cfg.Views; viewCol++ {
			dst, err := yuvio.NewFrame(dstExtent)
			if err != nil {
				return err
			}
			err = m.renderer.RenderView(m.bridge, m.cache.work, dst, viewRow, viewCol)
			if err != nil {
				dst.Close()
				return errkind.Wrapf(errkind.InvalidParam, "rendering view (%d,%d): %v", viewRow, viewCol, err)
			}
			err = emit(viewRow, viewCol, dst)
			dst.Close()
			if err != nil {
				return err
			}
		}
	}
	return nil
}
