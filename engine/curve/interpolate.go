package curve

import (
	"github.com/go-gl/mathgl/mgl32"
)

// hermiteBasis returns the four cubic Hermite basis weights at s in [0, 1].
func hermiteBasis(s float32) (h00, h10, h01, h11 float32) {
	s2 := s * s
	s3 := s2 * s
	h00 = 2*s3 - 3*s2 + 1
	h10 = s3 - 2*s2 + s
	h01 = -2*s3 + 3*s2
	h11 = s3 - s2
	return
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

func hermiteFloat(p0, m0, p1, m1 float32, s, dt float32) float32 {
	h00, h10, h01, h11 := hermiteBasis(s)
	return h00*p0 + h10*dt*m0 + h01*p1 + h11*dt*m1
}

func hermiteVec3(p0, m0, p1, m1 mgl32.Vec3, s, dt float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := range 3 {
		out[i] = hermiteFloat(p0[i], m0[i], p1[i], m1[i], s, dt)
	}
	return out
}

func hermiteQuat(p0, m0, p1, m1 mgl32.Quat, s, dt float32) mgl32.Quat {
	// Keep the segment on one hemisphere so the spline takes the short way round.
	if p0.Dot(p1) < 0 {
		p1 = p1.Scale(-1)
		m1 = m1.Scale(-1)
	}
	return mgl32.Quat{
		W: hermiteFloat(p0.W, m0.W, p1.W, m1.W, s, dt),
		V: hermiteVec3(p0.V, m0.V, p1.V, m1.V, s, dt),
	}.Normalize()
}
