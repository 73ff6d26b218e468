package physics

import "github.com/chewxy/math32"

func abs(v float32) float32 { return math32.Abs(v) }
func sin(v float32) float32 { return math32.Sin(v) }
