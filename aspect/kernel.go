package aspect

import "math"

// generateKernel builds the cross-shaped matched-filter template used by
// the fiducial detector (§4.E). A pixel's raw value is
// sign(onCross)·(−d²/2)·exp(−d·nearestDist), where nearestDist is the
// Euclidean distance to the nearest pixel of the OPPOSITE class (the
// nearest off-cross pixel for a pixel on the cross, and vice versa) and
// d is a fixed falloff constant. Because of the leading −d²/2, a pixel
// on the cross ends up negative and one off it ends up positive; the
// raw field is then affine-rescaled into [-1, 1]. The kernel side is
// 2·(length/2 + edge) + 1, one pixel wider on each edge than the bare
// cross so the template has some dark field to correlate against.
func generateKernel(length, width int) [][]float64 {
	const (
		d    = 20.0
		edge = 1
	)
	half := length / 2
	halfW := width / 2
	center := half + edge
	size := 2*center + 1

	onCross := make([][]bool, size)
	for r := 0; r < size; r++ {
		onCross[r] = make([]bool, size)
		for c := 0; c < size; c++ {
			inVerticalBar := r >= edge && r < size-edge && c >= center-halfW && c <= center+halfW
			inHorizontalBar := c >= edge && c < size-edge && r >= center-halfW && r <= center+halfW
			onCross[r][c] = inVerticalBar || inHorizontalBar
		}
	}

	raw := make([][]float64, size)
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for r := 0; r < size; r++ {
		raw[r] = make([]float64, size)
		for c := 0; c < size; c++ {
			on := onCross[r][c]
			nearest := math.Inf(1)
			for r2 := 0; r2 < size; r2++ {
				for c2 := 0; c2 < size; c2++ {
					if onCross[r2][c2] == on {
						continue
					}
					dy, dx := float64(r-r2), float64(c-c2)
					if dist := math.Hypot(dx, dy); dist < nearest {
						nearest = dist
					}
				}
			}
			sign := 1.0
			if !on {
				sign = -1.0
			}
			v := sign * (-(d * d) / 2) * math.Exp(-d*nearest)
			raw[r][c] = v
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}

	kernel := make([][]float64, size)
	span := maxVal - minVal
	for r := 0; r < size; r++ {
		kernel[r] = make([]float64, size)
		for c := 0; c < size; c++ {
			if span == 0 {
				continue
			}
			kernel[r][c] = -1 + (raw[r][c]-minVal)*2/span
		}
	}
	return kernel
}
