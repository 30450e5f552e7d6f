package acoustic

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Params configures a short-term autocorrelation analysis.
type Params struct {
	Floor            float64 // lowest candidate frequency, Hz
	Ceiling          float64 // highest candidate frequency, Hz
	PeriodsPerWindow float64 // window length in periods of Floor
	TimeStep         float64 // seconds between frame starts
	SilenceThreshold float64 // relative to the global absolute peak
	VoicingThreshold float64 // minimum strength for a voiced frame
	OctaveCost       float64 // per-octave preference for higher candidates
}

// frame is the best periodicity candidate of one analysis window.
type frame struct {
	Silent   bool
	Voiced   bool
	Lag      float64 // samples, with parabolic refinement
	Strength float64 // normalized autocorrelation at Lag, in [0, 1]
}

// correlator computes linear autocorrelations with a zero-padded real FFT.
type correlator struct {
	fft   *fourier.FFT
	buf   []float64
	coeff []complex128
	out   []float64
}

func newCorrelator(n int) *correlator {
	return &correlator{
		fft:   fourier.NewFFT(n),
		buf:   make([]float64, n),
		coeff: make([]complex128, n/2+1),
		out:   make([]float64, n),
	}
}

// autocorr returns the unnormalized autocorrelation of x. The returned
// slice is reused by the next call.
func (c *correlator) autocorr(x []float64) []float64 {
	copy(c.buf, x)
	for i := len(x); i < len(c.buf); i++ {
		c.buf[i] = 0
	}
	c.coeff = c.fft.Coefficients(c.coeff, c.buf)
	for i, v := range c.coeff {
		re, im := real(v), imag(v)
		c.coeff[i] = complex(re*re+im*im, 0)
	}
	c.out = c.fft.Sequence(c.out, c.coeff)
	return c.out
}

// track runs the autocorrelation method over s: each Hanning-windowed frame
// is autocorrelated, divided by the window's own autocorrelation, and the
// strongest local maximum between the ceiling and floor lags is kept.
func track(s *Sound, p Params) []frame {
	if s == nil || s.SampleRate <= 0 {
		return nil
	}
	fs := float64(s.SampleRate)
	n := len(s.Samples)

	winLen := int(math.Round(p.PeriodsPerWindow / p.Floor * fs))
	step := int(math.Round(p.TimeStep * fs))
	if step < 1 {
		step = 1
	}
	minLag := int(math.Floor(fs / p.Ceiling))
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Ceil(fs / p.Floor))
	if maxLag > winLen/2 {
		maxLag = winLen / 2
	}
	if winLen < 4 || n < winLen || maxLag <= minLag {
		return nil
	}

	corr := newCorrelator(nextPow2(winLen + maxLag + 2))
	window := hanning(winLen)
	rw := append([]float64(nil), corr.autocorr(window)[:maxLag+2]...)
	floats.Scale(1/rw[0], rw)

	global := floats.Norm(s.Samples, math.Inf(1))
	seg := make([]float64, winLen)
	frames := make([]frame, 0, (n-winLen)/step+1)

	for start := 0; start+winLen <= n; start += step {
		copy(seg, s.Samples[start:start+winLen])
		floats.AddConst(-stat.Mean(seg, nil), seg)

		local := floats.Norm(seg, math.Inf(1))
		if local == 0 || local <= p.SilenceThreshold*global {
			frames = append(frames, frame{Silent: true})
			continue
		}

		floats.Mul(seg, window)
		r := corr.autocorr(seg)
		if r[0] <= 0 {
			frames = append(frames, frame{Silent: true})
			continue
		}

		f := bestCandidate(r, rw, minLag, maxLag, fs, p)
		f.Voiced = f.Lag > 0 && f.Strength >= p.VoicingThreshold && f.Strength > 0
		frames = append(frames, f)
	}
	return frames
}

func bestCandidate(r, rw []float64, minLag, maxLag int, fs float64, p Params) frame {
	val := func(lag int) float64 {
		return r[lag] / r[0] / rw[lag]
	}

	var best frame
	bestScore := math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		prev, cur, next := val(lag-1), val(lag), val(lag+1)
		if cur <= prev || cur < next {
			continue
		}

		refined, strength := float64(lag), cur
		if den := prev - 2*cur + next; den != 0 {
			d := 0.5 * (prev - next) / den
			refined += d
			strength = cur - 0.25*(prev-next)*d
		}
		if strength > 1 {
			strength = 1 / strength
		}

		score := strength - p.OctaveCost*math.Log2(p.Floor*refined/fs)
		if score > bestScore {
			bestScore = score
			best = frame{Lag: refined, Strength: strength}
		}
	}
	return best
}

func hanning(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
