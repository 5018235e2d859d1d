package tracking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Placeholder values written when a trajectory is too short to estimate.
const (
	SentinelSpeed   = 1.0
	SentinelHeading = 0.0
)

// Kinematics holds one speed and heading per input sample.
type Kinematics struct {
	// Speed in working units per second.
	Speed []float64
	// Heading in degrees, in (-180, 180], measured from the x axis.
	Heading []float64
	// Sentinel is set when the trajectory had no df-frame displacement and
	// the slices hold SentinelSpeed and SentinelHeading.
	Sentinel bool
}

// Estimate computes speed and heading for one agent's positions, ordered by
// frame. For sample i the displacement to sample i+df gives
//
//	speed[i]   = |p[i+df] - p[i]| / df * fps
//	heading[i] = atan2(dy, dx)
//
// The last df samples have no forward partner and reuse the estimate of
// sample N-df-1.
func Estimate(track []r2.Vec, df, fps int) Kinematics {
	n := len(track)
	k := Kinematics{
		Speed:   make([]float64, n),
		Heading: make([]float64, n),
	}
	if df <= 0 || n <= df {
		k.Sentinel = true
		for i := range k.Speed {
			k.Speed[i] = SentinelSpeed
			k.Heading[i] = SentinelHeading
		}
		return k
	}

	last := n - df
	for i := 0; i < last; i++ {
		d := r2.Sub(track[i+df], track[i])
		k.Speed[i] = r2.Norm(d) / float64(df) * float64(fps)
		k.Heading[i] = headingDegrees(d)
	}
	for i := last; i < n; i++ {
		k.Speed[i] = k.Speed[last-1]
		k.Heading[i] = k.Heading[last-1]
	}
	return k
}

func headingDegrees(d r2.Vec) float64 {
	deg := math.Atan2(d.Y, d.X) * 180 / math.Pi
	if deg <= -180 {
		deg += 360
	}
	return deg
}
