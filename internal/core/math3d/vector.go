package math3d

import "github.com/chewxy/math32"

// Value-type vectors. Every operation returns a new value and never mutates
// its receiver, so vectors can be shared freely between goroutines.

// Vec2 is a 2D vector used by the court simulation.
type Vec2 struct{ X, Y float32 }

// Vec3 is a 3D vector.
type Vec3 struct{ X, Y, Z float32 }

// Vec4 is a homogeneous coordinate.
type Vec4 struct{ X, Y, Z, W float32 }

func V2(x, y float32) Vec2       { return Vec2{X: x, Y: y} }
func V3(x, y, z float32) Vec3    { return Vec3{X: x, Y: y, Z: z} }
func V4(x, y, z, w float32) Vec4 { return Vec4{X: x, Y: y, Z: z, W: w} }

// Vec2

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float32) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float32   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Length() float32      { return math32.Sqrt(a.Dot(a)) }

// Normalize returns a unit vector, or a itself when it has zero length.
func (a Vec2) Normalize() Vec2 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Vec3

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float32) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float32   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross is the right-handed cross product. Cross(a, b) == -Cross(b, a).
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Length() float32 { return math32.Sqrt(a.Dot(a)) }

// Normalize returns a unit vector, or a itself when it has zero length.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Vec4 extends a to homogeneous coordinates with the given w.
func (a Vec3) Vec4(w float32) Vec4 { return Vec4{a.X, a.Y, a.Z, w} }

// Vec4

func (a Vec4) Add(b Vec4) Vec4      { return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W} }
func (a Vec4) Sub(b Vec4) Vec4      { return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W} }
func (a Vec4) Scale(s float32) Vec4 { return Vec4{a.X * s, a.Y * s, a.Z * s, a.W * s} }
func (a Vec4) Dot(b Vec4) float32   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W }

// Vec3 drops w, dividing by it first unless it is zero.
func (a Vec4) Vec3() Vec3 {
	if a.W == 0 || a.W == 1 {
		return Vec3{a.X, a.Y, a.Z}
	}
	inv := 1 / a.W
	return Vec3{a.X * inv, a.Y * inv, a.Z * inv}
}

// Free-function forms of the Vec3 algebra.

func Add(a, b Vec3) Vec3           { return a.Add(b) }
func Sub(a, b Vec3) Vec3           { return a.Sub(b) }
func Scale(v Vec3, s float32) Vec3 { return v.Scale(s) }
func Dot(a, b Vec3) float32        { return a.Dot(b) }
func Cross(a, b Vec3) Vec3         { return a.Cross(b) }
func Length(v Vec3) float32        { return v.Length() }
func Normalize(v Vec3) Vec3        { return v.Normalize() }

// ApproxEqual reports whether every component of a and b differs by at most tol.
func (a Vec3) ApproxEqual(b Vec3, tol float32) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol)
}

// ApproxEqual reports whether every component of a and b differs by at most tol.
func (a Vec4) ApproxEqual(b Vec4, tol float32) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol) && near(a.W, b.W, tol)
}

func near(a, b, tol float32) bool { return math32.Abs(a-b) <= tol }

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 { return deg * math32.Pi / 180 }
