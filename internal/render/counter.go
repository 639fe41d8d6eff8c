package render

import "math"

// CounterFrames interpolates a stat counter from one value to another in
// steps frames. The last frame is always the target.
func CounterFrames(from, to, steps int) []int {
	if steps < 1 {
		steps = 1
	}
	frames := make([]int, steps)
	delta := float64(to-from) / float64(steps)
	for i := 1; i < steps; i++ {
		frames[i-1] = from + int(math.Round(delta*float64(i)))
	}
	frames[steps-1] = to
	return frames
}
