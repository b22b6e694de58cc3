package firperiph

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ProcessWAV filters a PCM WAV stream through the peripheral. Channels are
// mixed down to mono and samples are converted to unsigned 8 bits, the width
// of the XIN register. The output is an 8-bit mono WAV at the input sample
// rate.
func (f *Filter) ProcessWAV(r io.ReadSeeker, w io.WriteSeeker) error {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return fmt.Errorf("firperiph: %w", ErrNotWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("firperiph: could not decode PCM data: %w", err)
	}

	xs := toUnsigned8(buf.Data, int(dec.NumChans), int(dec.BitDepth))
	ys, err := f.Process(xs)
	if err != nil {
		return err
	}

	out := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  int(dec.SampleRate),
		},
		Data:           make([]int, len(ys)),
		SourceBitDepth: 8,
	}
	for i, y := range ys {
		out.Data[i] = int(y)
	}

	enc := wav.NewEncoder(w, int(dec.SampleRate), 8, 1, 1)
	if err := enc.Write(out); err != nil {
		return fmt.Errorf("firperiph: could not encode output: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("firperiph: could not finish output: %w", err)
	}

	return nil
}

// toUnsigned8 mixes interleaved frames down to mono and scales them to the
// 0-255 range. 8-bit WAV data is already unsigned, wider data is signed.
func toUnsigned8(data []int, chans, depth int) []byte {
	if chans < 1 {
		chans = 1
	}

	xs := make([]byte, len(data)/chans)
	for i := range xs {
		sum := 0
		for c := 0; c < chans; c++ {
			sum += data[i*chans+c]
		}
		v := sum / chans

		if depth > 8 {
			v = (v >> (depth - 8)) + 128
		}
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		xs[i] = byte(v)
	}

	return xs
}
