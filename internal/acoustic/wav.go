package acoustic

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// Sound is mono audio with samples normalized to [-1, 1].
type Sound struct {
	Samples    []float64
	SampleRate int
}

// Duration in seconds.
func (s *Sound) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// WAV format tags.
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// ReadWAV decodes an integer PCM or IEEE float WAV file and mixes all
// channels down to mono. Other encodings are rejected.
func ReadWAV(path string) (*Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}
	if d.SampleRate == 0 {
		return nil, fmt.Errorf("decode wav: missing format")
	}

	var interleaved []float64
	switch d.WavAudioFormat {
	case formatPCM, formatExtensible:
		// The extensible sub-format is not exposed by the decoder; it is
		// read as integer PCM, which is what ffmpeg writes for it.
		interleaved, err = readIntPCM(d)
	case formatIEEEFloat:
		interleaved, err = readFloatPCM(d)
	default:
		return nil, fmt.Errorf("decode wav: unsupported audio format %d", d.WavAudioFormat)
	}
	if err != nil {
		return nil, err
	}

	return &Sound{Samples: mixDown(interleaved, int(d.NumChans)), SampleRate: int(d.SampleRate)}, nil
}

func readIntPCM(d *wav.Decoder) ([]float64, error) {
	depth := int(d.BitDepth)
	if depth <= 0 || depth > 32 {
		return nil, fmt.Errorf("decode wav: unsupported bit depth %d", depth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil {
		return nil, fmt.Errorf("decode wav: no pcm data")
	}

	full := float64(int64(1) << (depth - 1))
	out := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		if depth == 8 {
			// 8-bit WAV is unsigned.
			v -= 128
		}
		out[i] = float64(v) / full
	}
	return out, nil
}

func readFloatPCM(d *wav.Decoder) ([]float64, error) {
	width := int(d.BitDepth) / 8
	if d.BitDepth != 32 && d.BitDepth != 64 {
		return nil, fmt.Errorf("decode wav: unsupported float bit depth %d", d.BitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if d.PCMChunk == nil {
		return nil, fmt.Errorf("decode wav: no pcm data")
	}
	raw, err := io.ReadAll(io.LimitReader(d.PCMChunk, int64(d.PCMSize)))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	out := make([]float64, len(raw)/width)
	for i := range out {
		b := raw[i*width:]
		if width == 4 {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		} else {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	}
	return out, nil
}

func mixDown(interleaved []float64, channels int) []float64 {
	if channels <= 0 {
		channels = 1
	}
	frames := len(interleaved) / channels
	samples := make([]float64, frames)
	for i := range samples {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		samples[i] = sum / float64(channels)
	}
	return samples
}
