package stats

import (
	"math"

	"EdgePull/internal/domain/models"
)

// ZScore is one rolling z-score sample. Value is meaningful only when
// Defined is true; a score is undefined until enough samples exist and when
// the window variance is exactly zero.
type ZScore struct {
	Value   float64
	Defined bool
}

// RollingZScore scores each index of series against the mean and population
// standard deviation (divisor = window) of its trailing window. Entries
// before window-1 samples are undefined. A zero standard deviation yields an
// undefined entry rather than an infinity or a division fault.
func RollingZScore(series []float64, window int) []ZScore {
	out := make([]ZScore, len(series))
	if window <= 0 || len(series) < window {
		return out
	}
	for i := window - 1; i < len(series); i++ {
		win := series[i-window+1 : i+1]
		mu := Mean(win)
		sd := popStdDev(win, mu)
		if sd == 0 {
			continue
		}
		out[i] = ZScore{Value: (series[i] - mu) / sd, Defined: true}
	}
	return out
}

// AverageTrueRange computes the simple moving average of the true range over
// the last n bars. True range at bar i is
// max(high-low, |high-prevClose|, |low-prevClose|); the first bar has no
// previous close, so its true range degenerates to high-low. The second
// return is false until n true-range values exist.
func AverageTrueRange(bars []models.Bar, n int) (float64, bool) {
	if n <= 0 || len(bars) < n {
		return 0, false
	}
	sum := 0.0
	for i := len(bars) - n; i < len(bars); i++ {
		sum += trueRange(bars, i)
	}
	return sum / float64(n), true
}

func trueRange(bars []models.Bar, i int) float64 {
	b := bars[i]
	tr := b.High - b.Low
	if i == 0 {
		return tr
	}
	prevClose := bars[i-1].Close
	if hc := math.Abs(b.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(b.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdDev returns the sample standard deviation (divisor = count-1),
// or 0 when fewer than two samples exist.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := Mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - mu
		sum2 += d * d
	}
	variance := sum2 / float64(len(xs)-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func popStdDev(xs []float64, mu float64) float64 {
	sum2 := 0.0
	for _, x := range xs {
		d := x - mu
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(len(xs)))
}
