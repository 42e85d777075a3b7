package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// MakeChannels allocates a zeroed channels x frames buffer.
func MakeChannels(channels, frames int) [][]float64 {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	return out
}

// FrameCount returns the number of frames common to the first channels of
// every buffer given, i.e. the shortest channel length.
func FrameCount(channels int, bufs ...[][]float64) int {
	n := -1
	for _, buf := range bufs {
		if len(buf) < channels {
			return 0
		}
		for ch := 0; ch < channels; ch++ {
			if n < 0 || len(buf[ch]) < n {
				n = len(buf[ch])
			}
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// CopyChannels copies the common channels and frames of src into dst.
// Aliased channels are left untouched.
func CopyChannels(dst, src [][]float64) {
	channels := len(dst)
	if len(src) < channels {
		channels = len(src)
	}
	for ch := 0; ch < channels; ch++ {
		if len(dst[ch]) > 0 && len(src[ch]) > 0 && &dst[ch][0] == &src[ch][0] {
			continue
		}
		CopyInto(dst[ch], src[ch])
	}
}

// Interleave writes channels into dst frame by frame and returns dst.
func Interleave(dst []float64, channels [][]float64) []float64 {
	frames := FrameCount(len(channels), channels)
	dst = EnsureLen(dst, frames*len(channels))
	for n := 0; n < frames; n++ {
		for ch := range channels {
			dst[n*len(channels)+ch] = channels[ch][n]
		}
	}
	return dst
}
