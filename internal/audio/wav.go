package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/wav"
)

// TargetSampleRate is the sample rate the transcription endpoints expect.
const TargetSampleRate = 16000

const (
	numChannels   = 1
	bitsPerSample = 16
	headerSize    = 44
)

// EncodeWAV packs float32 samples (16 kHz mono, nominally in [-1, 1]) into a
// complete linear-PCM WAV blob: 44-byte RIFF header followed by little-endian
// 16-bit samples. Out-of-range samples are clamped. An empty input produces a
// valid header-only container.
func EncodeWAV(samples []float32) []byte {
	const bytesPerSample = bitsPerSample / 8

	dataSize := uint32(len(samples) * bytesPerSample)
	byteRate := uint32(TargetSampleRate * numChannels * bytesPerSample)
	blockAlign := uint16(numChannels * bytesPerSample)

	out := make([]byte, headerSize+int(dataSize))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], 36+dataSize)
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM format tag
	binary.LittleEndian.PutUint16(out[22:24], numChannels)
	binary.LittleEndian.PutUint32(out[24:28], TargetSampleRate)
	binary.LittleEndian.PutUint32(out[28:32], byteRate)
	binary.LittleEndian.PutUint16(out[32:34], blockAlign)
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataSize)

	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(out[headerSize+2*i:], uint16(int16(s*32767)))
	}

	return out
}

// DecodeWAV reads a WAV blob into normalized float32 samples, returning the
// samples and the source sample rate. Multi-channel input is mixed down by
// taking the first channel.
func DecodeWAV(b []byte) ([]float32, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(b))
	if !dec.IsValidFile() {
		return nil, 0, errors.New("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil && err != io.EOF {
		return nil, 0, err
	}
	if buf == nil {
		return nil, 0, errors.New("empty wav buffer")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 1 {
		channels = buf.Format.NumChannels
	}

	out := make([]float32, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		out = append(out, float32(buf.Data[i])/scale)
	}

	rate := int(dec.SampleRate)
	if rate == 0 && buf.Format != nil {
		rate = buf.Format.SampleRate
	}
	if rate == 0 {
		rate = TargetSampleRate
	}
	return out, rate, nil
}

// DecodePCM16 converts raw little-endian 16-bit PCM bytes into float32
// samples. The byte length must be even.
func DecodePCM16(b []byte) ([]float32, error) {
	if len(b)%2 != 0 {
		return nil, errors.New("pcm16 data length must be even")
	}
	out := make([]float32, len(b)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(b[2*i:]))
		out[i] = float32(v) / 32768.0
	}
	return out, nil
}

// Resample converts samples from inRate to outRate using linear
// interpolation. Returns the input unchanged when the rates already match.
func Resample(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(outRate) / float64(inRate)
	outLen := int(float64(len(samples)) * ratio)
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float32, outLen)
	for i := range out {
		pos := float64(i) / ratio
		i0 := int(pos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(pos - float64(i0))
		out[i] = samples[i0] + (samples[i0+1]-samples[i0])*frac
	}
	return out
}
