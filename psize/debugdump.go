/*
DESCRIPTION
  debugdump.go implements the optional patchsize record dump/load
  tooling (spec.md §6.1's -dumpPsize/-loadPsize flags).

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package psize

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ausocean/lightfield/errkind"
)

// DumpRecords writes the current patchsize of every bridge slot to path,
// one "row col patchsize inherited" line per slot (rows x maxCols, so a
// row with fewer MIs also gets lines for its unused trailing slots), for
// offline inspection of a single frame's estimate (debug tooling only;
// never called from the render path, per the patchsize-file-I/O Open
// Question's resolution).
func DumpRecords(bridge *Bridge, rows, maxCols int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errkind.Wrap(errkind.FileSysError, err.Error())
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for row := 0; row < rows; row++ {
		for col := 0; col < maxCols; col++ {
			inherited := 0
			if bridge.Inherited(row, col) {
				inherited = 1
			}
			if _, err := fmt.Fprintf(w, "%d %d %g %d\n", row, col, bridge.Patchsize(row, col), inherited); err != nil {
				return errkind.Wrap(errkind.FileSysError, err.Error())
			}
		}
	}
	return w.Flush()
}

// LoadRecords reads a file produced by DumpRecords back into bridge,
// allowing a prior frame's patchsize estimate to be replayed without
// re-running estimation (debug tooling only).
func LoadRecords(bridge *Bridge, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errkind.Wrap(errkind.FileSysError, err.Error())
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var row, col, inherited int
		var psize float64
		if _, err := fmt.Sscanf(sc.Text(), "%d %d %g %d", &row, &col, &psize, &inherited); err != nil {
			continue
		}
		bridge.SetInfo(row, col, Info{Patchsize: psize, Inherited: inherited != 0})
	}
	if err := sc.Err(); err != nil {
		return errkind.Wrap(errkind.FileSysError, err.Error())
	}
	return nil
}
