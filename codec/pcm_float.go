package codec

import (
	"math"
	"time"
)

// Audio format tags accepted by the WAV Encoder.
const (
	FormatPCM   = 1
	FormatFloat = 3
	FormatALaw  = 6
	FormatMuLaw = 7

	wavFormatExtensible = 0xFFFE
)

const (
	maxPCMInt8Unsigned = 255
	scalePCMInt8       = 127.5
	scalePCMInt16      = 32768.0
	scalePCMInt24      = 8388608.0
	scalePCMInt32      = 2147483648.0
	floatPCM8Center    = 127.5
	floatPCM8Scale     = 127.5
	maxPCMInt16        = 32767
	maxPCMInt24        = 8388607
	maxPCMInt32        = 2147483647
)

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func clampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// normalizePCMInt maps a WAV PCM integer to [-1, 1]. 8 bit WAV samples are
// unsigned.
func normalizePCMInt(sample int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32((float64(sample) - floatPCM8Center) / scalePCMInt8)
	case 16:
		return float32(float64(sample) / scalePCMInt16)
	case 24:
		return float32(float64(sample) / scalePCMInt24)
	case 32:
		return float32(float64(sample) / scalePCMInt32)
	default:
		return 0
	}
}

// normalizeSignedInt maps a signed integer of any supported depth to
// [-1, 1]. AIFF stores 8 bit samples signed.
func normalizeSignedInt(sample int, bitDepth int) float32 {
	if bitDepth == 8 {
		return float32(float64(sample) / 128)
	}

	return normalizePCMInt(sample, bitDepth)
}

func float32ToPCMUint8(value float32) uint8 {
	value = clampFloat32(value, -1, 1)

	scaled := int(math.Round(float64((value + 1.0) * floatPCM8Scale)))

	return uint8(max(0, min(scaled, maxPCMInt8Unsigned)))
}

func float32ToPCMInt32(value float32, bitDepth int) int32 {
	value = clampFloat32(value, -1, 1)

	switch bitDepth {
	case 8:
		return scalePCM(value, 128, 127)
	case 16:
		return scalePCM(value, scalePCMInt16, maxPCMInt16)
	case 24:
		return scalePCM(value, scalePCMInt24, maxPCMInt24)
	case 32:
		return scalePCM(value, scalePCMInt32, maxPCMInt32)
	default:
		return 0
	}
}

func scalePCM(value float32, scale float64, maxValue int64) int32 {
	sample := int64(math.Round(float64(value) * scale))

	return int32(max(int64(-scale), min(sample, maxValue)))
}

func bytesPerSample(bitDepth int) int {
	return (bitDepth-1)/8 + 1
}

func sampleDuration(sampleRate int) time.Duration {
	if sampleRate == 0 {
		return 0
	}

	return time.Second / time.Duration(math.Abs(float64(sampleRate)))
}
