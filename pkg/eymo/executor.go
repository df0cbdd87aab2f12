package eymo

import "math"

// softwareExecutor is a CPU reference implementation of Executor: a
// scanline triangle rasterizer that samples src and writes into a
// same-sized output texture. It exists so the compositor's properties can
// be asserted in tests without a GPU context; a production build would
// instead back Executor with a real device/queue/shader pipeline.
type softwareExecutor struct{}

// NewSoftwareExecutor returns the CPU reference Executor.
func NewSoftwareExecutor() Executor { return &softwareExecutor{} }

func (e *softwareExecutor) RenderPass(src *Texture, vertices []Vertex, sampler Sampler, adjustments Adjustments, chans ChannelGains) (*Texture, error) {
	out := src.Clone()

	for i := 0; i+2 < len(vertices); i += 3 {
		rasterizeTriangle(out, src, vertices[i], vertices[i+1], vertices[i+2], sampler, adjustments, chans)
	}

	return out, nil
}

func rasterizeTriangle(out, src *Texture, a, b, c Vertex, sampler Sampler, adjustments Adjustments, chans ChannelGains) {
	toPixel := func(v Vertex) (float32, float32) {
		px := (v.X() + 1) / 2 * float32(out.Width)
		py := (1 - v.Y()) / 2 * float32(out.Height)
		return px, py
	}
	ax, ay := toPixel(a)
	bx, by := toPixel(b)
	cx, cy := toPixel(c)

	minX := clampInt(int(math.Floor(float64(minF(ax, bx, cx)))), 0, out.Width-1)
	maxX := clampInt(int(math.Ceil(float64(maxF(ax, bx, cx)))), 0, out.Width-1)
	minY := clampInt(int(math.Floor(float64(minF(ay, by, cy)))), 0, out.Height-1)
	maxY := clampInt(int(math.Ceil(float64(maxF(ay, by, cy)))), 0, out.Height-1)

	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 {
		return
	}

	wrap := sampler.AddressMode == AddressRepeat

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5

			w0 := edge(bx, by, cx, cy, px, py)
			w1 := edge(cx, cy, ax, ay, px, py)
			w2 := edge(ax, ay, bx, by, px, py)

			if !sameSign(w0, w1, w2, area) {
				continue
			}

			l0, l1, l2 := w0/area, w1/area, w2/area
			u := l0*a.TexCoord[0] + l1*b.TexCoord[0] + l2*c.TexCoord[0]
			v := l0*a.TexCoord[1] + l1*b.TexCoord[1] + l2*c.TexCoord[1]

			rgba := src.Sample(u, v, wrap)
			out.Set(x, y, applyAdjustments(rgba, adjustments, chans))
		}
	}
}

// noOpSentinel is the -1.0 uniform value the shader contract (spec.md §6)
// reserves to mean "skip this adjustment"; brightness is additive so any
// other value, including negative ones, is a real darken/lighten request.
const noOpSentinel float32 = -1

func applyAdjustments(rgba [4]byte, adjustments Adjustments, chans ChannelGains) [4]byte {
	out := rgba
	if adjustments.Brightness != noOpSentinel {
		for i := 0; i < 3; i++ {
			out[i] = addChannel(out[i], adjustments.Brightness*255)
		}
	}
	if adjustments.Saturation != noOpSentinel {
		gray := float32(out[0])*0.299 + float32(out[1])*0.587 + float32(out[2])*0.114
		for i := 0; i < 3; i++ {
			mixed := gray + (float32(out[i])-gray)*adjustments.Saturation
			out[i] = clampByte(mixed)
		}
	}
	for i := 0; i < 4; i++ {
		if chans[i] != noOpSentinel {
			out[i] = scaleChannel(out[i], chans[i])
		}
	}
	return out
}

func scaleChannel(v byte, gain float32) byte {
	return clampByte(float32(v) * gain)
}

func addChannel(v byte, offset float32) byte {
	return clampByte(float32(v) + offset)
}

func clampByte(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}

func sameSign(w0, w1, w2, area float32) bool {
	if area > 0 {
		return w0 >= 0 && w1 >= 0 && w2 >= 0
	}
	return w0 <= 0 && w1 <= 0 && w2 <= 0
}

func minF(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxF(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
