// Package codec moves audio between files and bufferlist Lists.
//
// The WAV Decoder supports PCM integer (8/16/24/32-bit), IEEE float
// (32/64-bit), A-law and mu-law data, including WAVE_FORMAT_EXTENSIBLE
// headers. DecodeList appends one chunk per decoded block, so long files end
// up as many small chunks that can be edited without copying. The Encoder
// drains a List chunk by chunk.
//
// AIFF files go through github.com/go-audio/aiff.
package codec
