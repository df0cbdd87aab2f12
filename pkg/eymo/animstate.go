package eymo

import "math"

// ShapeOpState is the per-instance animation state advanced across frames
// for one ShapeOp: accumulated translation, drift velocity+angle, and
// rotation. A missing cache entry seeds from the owning Transform's static
// parameters.
type ShapeOpState struct {
	Translation *[2]int
	DriftVec    *[2]float64 // {velocity, angle_deg}
	RotateDeg   *float64
}

// animParams is the static, shape-agnostic configuration a Transform ticks
// its cached state against.
type animParams struct {
	rotateDeg *float64
	rps       *float64
	drift     *[2]float64
	translate *[2]int
}

// tick advances spin and drift given elapsed wall time since the owning
// Transform's last tick, seeding from prev when present or from the static
// defaults otherwise. shape provides the centre used as the drift's pivot
// and width/height bound the wall-reflection. The second return reports a
// degenerate drift (NaN or infinite velocity/angle), which is replaced with
// zero velocity for the frame.
func tick(p animParams, shape Shape, width, height int, elapsed float64, prev *ShapeOpState) (ShapeOpState, bool) {
	var next ShapeOpState
	degenerate := false

	defaultRotate := 0.0
	if p.rotateDeg != nil {
		defaultRotate = *p.rotateDeg
	}
	defaultDrift := [2]float64{0, 0}
	if p.drift != nil {
		defaultDrift = *p.drift
	}
	defaultTrans := [2]int{0, 0}
	if p.translate != nil {
		defaultTrans = *p.translate
	}

	rotateDeg, drift, trans := defaultRotate, defaultDrift, defaultTrans
	if prev != nil {
		if prev.RotateDeg != nil {
			rotateDeg = *prev.RotateDeg
		}
		if prev.DriftVec != nil {
			drift = *prev.DriftVec
		}
		if prev.Translation != nil {
			trans = *prev.Translation
		}
	}

	if p.rps != nil {
		nextRotate := rotateDeg + 360*(*p.rps)*elapsed
		next.RotateDeg = &nextRotate
	} else if p.rotateDeg != nil {
		v := *p.rotateDeg
		next.RotateDeg = &v
	}

	if p.drift != nil {
		vel, ang := drift[0], drift[1]
		if math.IsNaN(vel) || math.IsInf(vel, 0) || math.IsNaN(ang) || math.IsInf(ang, 0) {
			vel, ang = 0, 0
			degenerate = true
		}
		hyp := vel * elapsed
		dy := int(math.Round(math.Cos(ang*math.Pi/180) * hyp))
		dx := int(math.Round(math.Sin(ang*math.Pi/180) * hyp))

		center := shape.Center()
		centerX, centerY := center.X, center.Y

		nextX := centerX + trans[0] + dx
		nextY := centerY + trans[1] + dy
		nextAng := ang

		if nextX >= width {
			nextX = width - (nextX - width)
			nextAng = mirrorX(nextAng)
		}
		if nextX < 0 {
			nextX = -nextX
			nextAng = mirrorX(nextAng)
		}
		if nextY >= height {
			nextY = height - (nextY - height)
			nextAng = mirrorY(nextAng)
		}
		if nextY < 0 {
			nextY = -nextY
			nextAng = mirrorY(nextAng)
		}

		nextDrift := [2]float64{vel, nextAng}
		next.DriftVec = &nextDrift
		nextTrans := [2]int{nextX - centerX, nextY - centerY}
		next.Translation = &nextTrans
	} else if p.translate != nil {
		v := *p.translate
		next.Translation = &v
	}

	return next, degenerate
}

// mirrorX reflects a drift heading off the left/right walls.
func mirrorX(degrees float64) float64 {
	return 360 - degrees
}

// mirrorY reflects a drift heading off the top/bottom walls.
func mirrorY(degrees float64) float64 {
	if degrees >= 180 {
		return 540 - degrees
	}
	return 180 - degrees
}

// flipWithin mirrors val within [min,max], clamped back into range.
func flipWithin(val, lo, hi float32) float32 {
	res := lo + hi - val
	if res > hi {
		return hi
	}
	if res < lo {
		return lo
	}
	return res
}
