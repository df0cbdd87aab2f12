package eymo

import "fmt"

// TextureUsage flags mirror the GPU usage bits a real backend would need:
// sampled in a shader, used as a render target, or as the source/dest of a
// copy.
type TextureUsage int

const (
	UsageSampled TextureUsage = 1 << iota
	UsageRenderTarget
	UsageCopySrc
	UsageCopyDst
)

// Texture is an opaque RGBA8-UNORM pixel buffer handle. Its creation and the
// GPU device/queue that would back it in production are treated as an
// external collaborator; Texture here is the in-memory contract an Executor
// operates on.
type Texture struct {
	Width, Height int
	Usage         TextureUsage
	Pixels        []byte // len == Width*Height*4, row-major RGBA8
}

// NewTexture allocates a zeroed texture of the given size.
func NewTexture(width, height int, usage TextureUsage) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Usage:  usage,
		Pixels: make([]byte, width*height*4),
	}
}

// NewTextureFromPixels wraps an existing RGBA8 pixel buffer.
func NewTextureFromPixels(width, height int, pixels []byte, usage TextureUsage) (*Texture, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("eymo: pixel buffer length %d does not match %dx%d RGBA8", len(pixels), width, height)
	}
	cp := make([]byte, len(pixels))
	copy(cp, pixels)
	return &Texture{Width: width, Height: height, Usage: usage, Pixels: cp}, nil
}

// Clone returns an independent copy of the texture.
func (t *Texture) Clone() *Texture {
	cp := make([]byte, len(t.Pixels))
	copy(cp, t.Pixels)
	return &Texture{Width: t.Width, Height: t.Height, Usage: t.Usage, Pixels: cp}
}

func (t *Texture) at(x, y int) int {
	return (y*t.Width + x) * 4
}

// Sample reads the RGBA8 pixel nearest (u,v), u,v in [0,1], honoring the
// given address mode (wrap for tile mode, clamp otherwise).
func (t *Texture) Sample(u, v float32, wrap bool) [4]byte {
	x := int(u * float32(t.Width))
	y := int(v * float32(t.Height))

	if wrap {
		x = wrapInt(x, t.Width)
		y = wrapInt(y, t.Height)
	} else {
		x = clampInt(x, 0, t.Width-1)
		y = clampInt(y, 0, t.Height-1)
	}

	i := t.at(x, y)
	return [4]byte{t.Pixels[i], t.Pixels[i+1], t.Pixels[i+2], t.Pixels[i+3]}
}

// Set writes an RGBA8 pixel at (x,y), a no-op if out of bounds.
func (t *Texture) Set(x, y int, rgba [4]byte) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	i := t.at(x, y)
	copy(t.Pixels[i:i+4], rgba[:])
}

func wrapInt(v, max int) int {
	if max <= 0 {
		return 0
	}
	v %= max
	if v < 0 {
		v += max
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AddressMode selects how out-of-[0,1] texture coordinates are resolved.
type AddressMode int

const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
)

// Sampler mirrors the GPU sampler bound alongside a texture.
type Sampler struct {
	AddressMode AddressMode
}

// Adjustments is the {brightness, saturation} uniform, -1.0 meaning no-op.
type Adjustments struct {
	Brightness float32
	Saturation float32
}

// ChannelGains is the {r,g,b,a} per-channel gain uniform, -1.0 meaning no-op
// per channel.
type ChannelGains [4]float32

// Executor is the GPU seam: the opaque executor exposing texture/buffer/
// pipeline primitives that a real backend (device/queue/shader compiler)
// would implement. A real implementation would own a wgpu/Vulkan device and
// compiled shader modules; the reference implementation in this repo
// (softwareExecutor, see executor.go) is a CPU rasterizer so the
// compositor's properties can be verified without a GPU context.
type Executor interface {
	// RenderPass composites vertices (already in clip space with texture
	// coordinates) sampled from src using sampler, applying adjustments and
	// chans, into a new output texture the same size as src. Untouched
	// pixels (not covered by any triangle) pass through from src unchanged,
	// matching the "copy then Load" contract of the transform shader.
	RenderPass(src *Texture, vertices []Vertex, sampler Sampler, adjustments Adjustments, chans ChannelGains) (*Texture, error)
}
