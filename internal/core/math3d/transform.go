package math3d

import "github.com/chewxy/math32"

// Transform builders. All of them produce matrices for column vectors, so a
// model-view-projection chain is composed right to left: P·V·M.

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// ScaleMatrix returns a non-uniform scale.
func ScaleMatrix(x, y, z float32) Mat4 {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// RotateX rotates counter-clockwise about +X by rad.
func RotateX(rad float32) Mat4 {
	s, c := math32.Sincos(rad)
	m := Identity()
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return m
}

// RotateY rotates counter-clockwise about +Y by rad.
func RotateY(rad float32) Mat4 {
	s, c := math32.Sincos(rad)
	m := Identity()
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return m
}

// RotateZ rotates counter-clockwise about +Z by rad.
func RotateZ(rad float32) Mat4 {
	s, c := math32.Sincos(rad)
	m := Identity()
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return m
}

// Perspective builds an OpenGL style projection (clip z in [-w, w]) from a
// vertical field of view in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	var m Mat4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = 2 * far * near / (near - far)
	m[3][2] = -1
	return m
}

// Orthographic maps the box [l,r]x[b,t]x[-n,-f] onto the clip cube.
func Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	m := Identity()
	m[0][0] = 2 / (right - left)
	m[1][1] = 2 / (top - bottom)
	m[2][2] = -2 / (far - near)
	m[0][3] = -(right + left) / (right - left)
	m[1][3] = -(top + bottom) / (top - bottom)
	m[2][3] = -(far + near) / (far - near)
	return m
}

// LookAt builds a right-handed view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		{s.X, s.Y, s.Z, -s.Dot(eye)},
		{u.X, u.Y, u.Z, -u.Dot(eye)},
		{-f.X, -f.Y, -f.Z, f.Dot(eye)},
		{0, 0, 0, 1},
	}
}

// MVP composes projection·view·model.
func MVP(projection, view, model Mat4) Mat4 {
	return Multiply(Multiply(projection, view), model)
}
