package mathutil

import "math"

// LogZero stands in for log(0).
const LogZero = -1e30

// LogAdd returns log(exp(a) + exp(b)). A term more than 36 nats below the
// other is below float64 precision and is dropped.
func LogAdd(a, b float64) float64 {
	if a > b {
		if b == LogZero {
			return a
		}
		d := b - a
		if d < -36.0 {
			return a
		}
		return a + math.Log1p(math.Exp(d))
	}
	if a == LogZero {
		return b
	}
	d := a - b
	if d < -36.0 {
		return b
	}
	return b + math.Log1p(math.Exp(d))
}

// LogChoose returns log(n choose k). Out-of-range k yields LogZero.
func LogChoose(n, k int) float64 {
	if k < 0 || n < 0 || k > n {
		return LogZero
	}
	if k == 0 || k == n {
		return 0
	}
	return logFactorial(n) - logFactorial(k) - logFactorial(n-k)
}

func logFactorial(n int) float64 {
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}

// Exp converts a log-domain value back to linear scale, mapping LogZero to 0.
func Exp(x float64) float64 {
	if x <= LogZero {
		return 0
	}
	return math.Exp(x)
}
