package eymo

import _ "embed"

// The WGSL sources a GPU-backed Executor compiles. The software reference
// executor in this repo implements the same semantics on the CPU; these are
// embedded so a real device/queue backend can be wired without touching the
// compositor.
//
//   - TransformShaderWGSL: vertex pass-through, fragment samples the bound
//     texture and applies brightness/saturation/per-channel gains, with
//     -1.0 as the skip sentinel on each uniform. Bindings: (0) texture,
//     (1) sampler, (2) vec2 {brightness, saturation}, (3) vec4 gains.
//   - ResizeShaderWGSL: full-coverage vertex plus bilinear fragment.
//     Bindings: (0) texture, (1) sampler, (2) vec2 output dimensions.
//   - RGBShaderWGSL: compute kernel unpacking an RGBA8 texture into an
//     interleaved RGB float buffer; entry points tex_to_rgb_buf_0_1 and
//     tex_to_rgb_buf_neg1_1 select the output range.
var (
	//go:embed shaders/transform.wgsl
	TransformShaderWGSL string

	//go:embed shaders/resize.wgsl
	ResizeShaderWGSL string

	//go:embed shaders/rgb.wgsl
	RGBShaderWGSL string
)
