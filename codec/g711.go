package codec

// G.711 companding for the A-law and mu-law WAV formats.

const (
	muLawBias = 0x84
	muLawClip = 8159
	aLawClip  = 0x0FFF
)

// segment upper bounds, indexed by exponent
var (
	muLawSegments = [8]int{0x3F, 0x7F, 0xFF, 0x1FF, 0x3FF, 0x7FF, 0xFFF, 0x1FFF}
	aLawSegments  = [8]int{0x1F, 0x3F, 0x7F, 0xFF, 0x1FF, 0x3FF, 0x7FF, 0xFFF}
)

func segmentOf(value int, bounds [8]int) int {
	for seg, upper := range bounds {
		if value <= upper {
			return seg
		}
	}

	return len(bounds)
}

func muLawToPCM(code byte) int16 {
	code = ^code

	exp := (code >> 4) & 0x07
	pcm := ((int(code&0x0F) << 3) + muLawBias) << exp
	pcm -= muLawBias

	if code&0x80 != 0 {
		pcm = -pcm
	}

	return int16(pcm)
}

func aLawToPCM(code byte) int16 {
	code ^= 0x55

	exp := (code >> 4) & 0x07
	pcm := int(code&0x0F) << 4

	if exp == 0 {
		pcm += 8
	} else {
		pcm = (pcm + 0x108) << (exp - 1)
	}

	if code&0x80 == 0 {
		pcm = -pcm
	}

	return int16(pcm)
}

func pcmToMuLaw(pcm int16) byte {
	mask := byte(0xFF)

	v := int(pcm) >> 2
	if v < 0 {
		v, mask = -v, 0x7F
	}

	v = min(v, muLawClip) + muLawBias>>2

	seg := segmentOf(v, muLawSegments)
	if seg >= len(muLawSegments) {
		return 0x7F ^ mask
	}

	return (byte(seg<<4) | byte((v>>(seg+1))&0x0F)) ^ mask
}

func pcmToALaw(pcm int16) byte {
	mask := byte(0xD5)

	v := int(pcm) >> 3
	if v < 0 {
		v, mask = -v-1, 0x55
	}

	v = min(v, aLawClip)

	seg := segmentOf(v, aLawSegments)
	if seg >= len(aLawSegments) {
		return 0x7F ^ mask
	}

	shift := seg
	if seg < 2 {
		shift = 1
	}

	return (byte(seg<<4) | byte((v>>shift)&0x0F)) ^ mask
}
