/*
DESCRIPTION
  math.go collects the small numeric helpers the Arrange
  implementations share.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package geom

import "math"

func sqrt(v float64) float64 { return math.Sqrt(v) }
