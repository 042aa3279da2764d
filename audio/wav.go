package audio

import "encoding/binary"

// Narration PCM format: 16-bit signed little-endian mono at 24 kHz, as
// delivered by the speech model.
const (
	sampleRate    = 24000
	numChannels   = 1
	bitsPerSample = 16
	bytesPerSec   = sampleRate * numChannels * bitsPerSample / 8
	blockAlign    = numChannels * bitsPerSample / 8
	headerLen     = 44
)

// EncodeWAV wraps raw PCM samples in a minimal RIFF/WAVE container so a
// standard media element can play them. The header is the fixed 44-byte
// canonical layout.
func EncodeWAV(pcm []byte) []byte {
	out := make([]byte, headerLen+len(pcm))
	le := binary.LittleEndian

	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16)
	le.PutUint16(out[20:22], 1) // PCM
	le.PutUint16(out[22:24], numChannels)
	le.PutUint32(out[24:28], sampleRate)
	le.PutUint32(out[28:32], bytesPerSec)
	le.PutUint16(out[32:34], blockAlign)
	le.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(pcm)))

	copy(out[headerLen:], pcm)
	return out
}

// PCMDuration computes the playback length in seconds of a raw PCM payload.
func PCMDuration(pcm []byte) float64 {
	return float64(len(pcm)) / float64(bytesPerSec)
}
