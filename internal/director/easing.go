package director

import "math"

// ExpEase maps x in [0,1] onto [0,1] as (10^x - 1) / 9.
// Early values stay close to 0 and the curve steepens towards 1.
func ExpEase(x float64) float64 {
	return (math.Pow(10, x) - 1) / 9
}
