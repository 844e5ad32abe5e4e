package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ComposeTRS builds a local transform matrix from translation, rotation and scale.
// The result is T * R * S in column-major order (OpenGL/WebGPU convention).
//
// Parameters:
//   - t: the translation
//   - r: the rotation quaternion, expected to be normalized
//   - s: the per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed transform
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	m := r.Mat4()

	m[0], m[1], m[2] = m[0]*s[0], m[1]*s[0], m[2]*s[0]
	m[4], m[5], m[6] = m[4]*s[1], m[5]*s[1], m[6]*s[1]
	m[8], m[9], m[10] = m[8]*s[2], m[9]*s[2], m[10]*s[2]

	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// WrapTime maps t into [0, length) for looping playback.
// Negative times wrap from the end, so reverse playback loops as well.
// A non-positive length yields 0.
//
// Parameters:
//   - t: the unwrapped playback time in seconds
//   - length: the loop length in seconds
//
// Returns:
//   - float32: the wrapped time
func WrapTime(t, length float32) float32 {
	if length <= 0 {
		return 0
	}
	w := math32.Mod(t, length)
	if w < 0 {
		w += length
	}
	return w
}

// ClampTime clamps t into [0, length].
//
// Parameters:
//   - t: the unclamped playback time in seconds
//   - length: the clip length in seconds
//
// Returns:
//   - float32: the clamped time
func ClampTime(t, length float32) float32 {
	if length <= 0 {
		return 0
	}
	return math32.Min(math32.Max(t, 0), length)
}

// AccumulateQuat adds q scaled by w into acc, flipping q onto the same hemisphere as acc
// so that q and -q (the same orientation) never cancel out. The caller normalizes the
// accumulated result once all contributions are in.
//
// Parameters:
//   - acc: the running weighted sum; the zero Quat for the first contribution
//   - q: the rotation to add
//   - w: the contribution weight
//
// Returns:
//   - mgl32.Quat: the updated sum
func AccumulateQuat(acc, q mgl32.Quat, w float32) mgl32.Quat {
	if acc.Dot(q) < 0 {
		w = -w
	}
	return mgl32.Quat{
		W: acc.W + q.W*w,
		V: mgl32.Vec3{acc.V[0] + q.V[0]*w, acc.V[1] + q.V[1]*w, acc.V[2] + q.V[2]*w},
	}
}

// Saturate clamps v into [0, 1]. NaN maps to 0.
func Saturate(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return mgl32.Clamp(v, 0, 1)
}
