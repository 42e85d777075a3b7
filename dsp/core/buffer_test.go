package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestMakeChannels(t *testing.T) {
	buf := MakeChannels(2, 5)
	if len(buf) != 2 || len(buf[0]) != 5 || len(buf[1]) != 5 {
		t.Fatalf("unexpected shape: %d x %d", len(buf), len(buf[0]))
	}
	if len(MakeChannels(-1, 4)) != 0 {
		t.Fatal("negative channel count should yield an empty buffer")
	}
}

func TestFrameCount(t *testing.T) {
	a := [][]float64{make([]float64, 8), make([]float64, 6)}
	b := [][]float64{make([]float64, 7), make([]float64, 9)}

	if got := FrameCount(2, a, b); got != 6 {
		t.Fatalf("FrameCount = %d, want 6", got)
	}
	if got := FrameCount(1, a, b); got != 7 {
		t.Fatalf("FrameCount(1) = %d, want 7", got)
	}
	if got := FrameCount(3, a); got != 0 {
		t.Fatalf("FrameCount with missing channel = %d, want 0", got)
	}
}

func TestCopyInto(t *testing.T) {
	dst := make([]float64, 2)

	n := CopyInto(dst, []float64{1, 2, 3})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}

func TestCopyChannels(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	dst := MakeChannels(2, 2)
	CopyChannels(dst, src)

	if dst[0][1] != 2 || dst[1][0] != 3 {
		t.Fatalf("unexpected dst: %#v", dst)
	}

	CopyChannels(src, src)
	if src[1][1] != 4 {
		t.Fatalf("aliased copy changed data: %#v", src)
	}
}

func TestInterleave(t *testing.T) {
	got := Interleave(nil, [][]float64{{1, 3}, {2, 4}})
	want := []float64{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Interleave = %v, want %v", got, want)
		}
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}
