package escher

// clipSegment clips the segment (x1,y1)-(x2,y2) against the rectangle
// [xmin,xmax] x [ymin,ymax] and reports whether any part survives.
//
// The boundary counts as inside: an endpoint exactly on an edge is not
// clipped, while the edge-intersection tests use strict inequalities. This
// asymmetry is inherited from the original device layer and keeps segments
// that merely touch the window from being dropped.
func clipSegment(xmin, xmax, ymin, ymax, x1, y1, x2, y2 float64) (cx1, cy1, cx2, cy2 float64, visible bool) {
	oneInside := false
	check := false

	switch {
	case x1 > xmax:
		switch {
		case y1 > ymax:
			check = x2 < xmax && y2 < ymax
		case y1 < ymin:
			check = x2 < xmax && y2 > ymin
		default:
			check = x2 < xmax
		}
	case x1 < xmin:
		switch {
		case y1 > ymax:
			check = x2 > xmin && y2 < ymax
		case y1 < ymin:
			check = x2 > xmin && y2 > ymin
		default:
			check = x2 > xmin
		}
	default:
		switch {
		case y1 > ymax:
			check = y2 < ymax
		case y1 < ymin:
			check = y2 > ymin
		default:
			check = x2 > xmax || x2 < xmin || y2 > ymax || y2 < ymin
			if !check {
				return x1, y1, x2, y2, true
			}
			oneInside = true
		}
	}
	if !check {
		return x1, y1, x2, y2, false
	}

	twoInside := false
	possible := 1
	if !oneInside {
		twoInside = x2 <= xmax && x2 >= xmin && y2 <= ymax && y2 >= ymin
		if !twoInside {
			possible = 2
		}
	}

	dx := x2 - x1
	dy := y2 - y1

	// Axis-aligned segments are handled directly; the general edge tests
	// below would divide by a zero delta.
	if dy == 0 {
		switch {
		case x1 < xmin && x2 > xmax:
			return xmin, y1, xmax, y2, true
		case x1 < xmin && x2 > xmin:
			return xmin, y1, x2, y2, true
		case x2 < xmin && x1 > xmax:
			return xmax, y1, xmin, y2, true
		case x2 < xmin && x1 > xmin:
			return x1, y1, xmin, y2, true
		}
	}
	if dx == 0 {
		switch {
		case y1 < ymin && y2 > ymax:
			return x1, ymin, x2, ymax, true
		case y1 < ymin && y2 > ymin:
			return x1, ymin, x2, y2, true
		case y2 < ymin && y1 > ymax:
			return x1, ymax, x2, ymin, true
		case y2 < ymin && y1 > ymin:
			return x1, y1, x2, ymin, true
		}
	}

	var xend, yend [2]float64
	n := 0

	between := func(v, d float64) bool {
		return (0 < v && v < d) || (0 > v && v > d)
	}

	if v := ymax - y1; n < possible && between(v, dy) {
		if x := v/dy*dx + x1; x < xmax && x > xmin {
			xend[n], yend[n] = x, ymax
			n++
		}
	}
	if v := ymin - y1; n < possible && between(v, dy) {
		if x := v/dy*dx + x1; x < xmax && x > xmin {
			xend[n], yend[n] = x, ymin
			n++
		}
	}
	if v := xmax - x1; n < possible && between(v, dx) {
		if y := v/dx*dy + y1; y < ymax && y > ymin {
			xend[n], yend[n] = xmax, y
			n++
		}
	}
	if v := xmin - x1; n < possible && between(v, dx) {
		if y := v/dx*dy + y1; y < ymax && y > ymin {
			xend[n], yend[n] = xmin, y
			n++
		}
	}

	if n == possible {
		cx1, cy1, cx2, cy2 = x1, y1, x2, y2
		i := 0
		if !oneInside {
			cx1, cy1 = xend[i], yend[i]
			i++
		}
		if !twoInside {
			cx2, cy2 = xend[i], yend[i]
		}
		return cx1, cy1, cx2, cy2, true
	}
	return x1, y1, x2, y2, false
}
