package math3d

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix stored row-major: m[i][j] is row i, column j.
// Vectors are column vectors, so Transform computes m·v and the translation
// of an affine transform lives in column 3.
type Mat4 [4][4]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Multiply returns a·b where r[i][j] = Σk a[i][k]·b[k][j]. The product is
// associative but not commutative.
func Multiply(a, b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Transform applies m to the homogeneous vector v.
func Transform(m Mat4, v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// Transpose swaps m[i][j] and m[j][i].
func Transpose(m Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

func (m Mat4) Mul(n Mat4) Mat4         { return Multiply(m, n) }
func (m Mat4) MulVec4(v Vec4) Vec4     { return Transform(m, v) }
func (m Mat4) Transpose() Mat4         { return Transpose(m) }
func (m Mat4) Translation() Vec3       { return Vec3{m[0][3], m[1][3], m[2][3]} }
func (m Mat4) At(row, col int) float32 { return m[row][col] }

// TransformPoint applies m to p with w = 1 and divides by the resulting w.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Transform(m, p.Vec4(1)).Vec3()
}

// TransformDirection applies m to d with w = 0, ignoring translation.
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	r := Transform(m, d.Vec4(0))
	return Vec3{r.X, r.Y, r.Z}
}

// ColumnMajor flattens m in the order OpenGL expects when uploading with
// transpose disabled.
func (m Mat4) ColumnMajor() [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[row][col]
		}
	}
	return out
}

// ApproxEqual reports whether every element of m and n differs by at most tol.
func (m Mat4) ApproxEqual(n Mat4, tol float32) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math32.Abs(m[i][j]-n[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
