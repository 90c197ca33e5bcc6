// Package objective scores binary codes for coded-exposure and
// coded-aperture imaging.
//
// Every objective works on the magnitude of the discrete Fourier transform
// of the code (its modulation transfer function, MTF). Larger scores are
// better. Because the DFT magnitude is invariant under cyclic shifts and
// reversal, every word of a bracelet class receives the same score, which
// is what lets a search visit one representative per class.
//
// # Usage
//
//	fn, err := objective.Lookup("minimal_variance")
//	if err != nil {
//	    return err
//	}
//	score := fn([]int{1, 1, 0, 1, 0, 0, 0})
package objective

import (
	"math"
	"slices"
	"strings"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// Func scores a code. Higher is better.
type Func func(code []int) float64

// Names of the registered objectives, as stored in catalog keys.
const (
	NameMinimalVariance  = "minimal_variance"
	NameSpectralFlatness = "spectral_flatness"
	NameCodedFactor      = "coded_factor"
)

// CodedFactorLambda weights the log-MTF floor in [CodedFactor].
const CodedFactorLambda = 8.5

const epsilon = 1e-16

var registry = map[string]Func{
	NameMinimalVariance:  MinimalVariance,
	NameSpectralFlatness: SpectralFlatness,
	NameCodedFactor:      CodedFactor,
}

// Lookup returns the objective registered under name. Hyphens and
// underscores are interchangeable.
func Lookup(name string) (Func, error) {
	if fn, ok := registry[Normalize(name)]; ok {
		return fn, nil
	}
	return nil, jerrors.New(jerrors.ErrCodeInvalidObjective,
		"unknown objective %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Normalize maps a user-supplied objective name to its registered form.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Names returns the registered objective names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MinimalVariance maximizes the smallest MTF value while minimizing the
// variance of the MTF over the non-redundant half spectrum.
//
// Raskar, Agrawal & Tumblin (2006), "Coded exposure photography: motion
// deblurring using fluttered shutter".
func MinimalVariance(code []int) float64 {
	mtf := magnitudes(code, true)
	if len(mtf) == 0 {
		return math.Inf(-1)
	}
	return slices.Min(mtf) - variance(mtf)
}

// SpectralFlatness is the geometric mean of the power spectrum divided by
// its arithmetic mean. A flat spectrum scores 1, a tonal one 0.
func SpectralFlatness(code []int) float64 {
	mtf := magnitudes(code, true)
	if len(mtf) == 0 {
		return math.Inf(-1)
	}
	var logSum, sum float64
	for _, m := range mtf {
		p := m * m
		if p == 0 {
			return 0
		}
		logSum += math.Log(p)
		sum += p
	}
	n := float64(len(mtf))
	return math.Exp(logSum/n) / (sum / n)
}

// CodedFactor rewards a low-variance MTF and penalizes deep spectral
// nulls: L²/var(MTF) + λ·min(log MTF), over the full spectrum.
//
// Jeon, Lee, Han, Kim & Kweon (2017), "Generating fluttering patterns with
// low autocorrelation for coded exposure imaging".
func CodedFactor(code []int) float64 {
	mtf := magnitudes(code, false)
	if len(mtf) == 0 {
		return math.Inf(-1)
	}
	l := float64(len(code))
	floor := math.Inf(1)
	for _, m := range mtf {
		floor = min(floor, math.Log(m+epsilon))
	}
	return l*l/(variance(mtf)+epsilon) + CodedFactorLambda*floor
}

// variance is the population variance of xs.
func variance(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var v float64
	for _, x := range xs {
		d := x - mean
		v += d * d
	}
	return v / float64(len(xs))
}
