package compose

// Pure overlay geometry, kept separate from codec calls so placement policy
// is testable in isolation. The overlay is always centered; centering is a
// fixed policy, not configurable.

// FitWithin returns the dimensions of (w, h) scaled down to fit inside
// (maxW, maxH) with aspect ratio preserved. Dimensions already within bounds
// are returned unchanged; this never scales up.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		// Height is the limiting factor.
		w = int(float64(maxH) * ratio)
		h = maxH
	} else {
		// Width is the limiting factor.
		h = int(float64(maxW) / ratio)
		w = maxW
	}

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// CenterOffset returns the top-left offset that centers an overlay of
// (w, h) within a base of (baseW, baseH).
func CenterOffset(baseW, baseH, w, h int) (x, y int) {
	return (baseW - w) / 2, (baseH - h) / 2
}
