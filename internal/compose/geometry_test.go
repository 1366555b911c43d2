package compose

import "testing"

func TestFitWithin(t *testing.T) {
	cases := []struct {
		name           string
		w, h           int
		maxW, maxH     int
		wantW, wantH   int
	}{
		{"already fits", 100, 50, 200, 200, 100, 50},
		{"exact fit", 200, 200, 200, 200, 200, 200},
		{"width limited", 400, 200, 200, 200, 200, 100},
		{"height limited", 200, 400, 200, 200, 100, 200},
		{"both exceed, wide", 4000, 1000, 1920, 1080, 1920, 480},
		{"both exceed, tall", 1000, 4000, 1920, 1080, 270, 1080},
		{"never scales up", 10, 10, 1000, 1000, 10, 10},
		{"extreme ratio clamps to 1", 10000, 10, 5, 5, 5, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotW, gotH := FitWithin(tc.w, tc.h, tc.maxW, tc.maxH)
			if gotW != tc.wantW || gotH != tc.wantH {
				t.Errorf("FitWithin(%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
					tc.w, tc.h, tc.maxW, tc.maxH, gotW, gotH, tc.wantW, tc.wantH)
			}
			if gotW > tc.maxW || gotH > tc.maxH {
				t.Errorf("result (%d,%d) exceeds bounds (%d,%d)", gotW, gotH, tc.maxW, tc.maxH)
			}
		})
	}
}

func TestCenterOffset(t *testing.T) {
	cases := []struct {
		baseW, baseH int
		w, h         int
		wantX, wantY int
	}{
		{100, 100, 100, 100, 0, 0},
		{100, 100, 50, 50, 25, 25},
		{1920, 1080, 640, 480, 640, 300},
		{101, 101, 50, 50, 25, 25}, // odd remainder rounds toward origin
	}

	for _, tc := range cases {
		x, y := CenterOffset(tc.baseW, tc.baseH, tc.w, tc.h)
		if x != tc.wantX || y != tc.wantY {
			t.Errorf("CenterOffset(%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
				tc.baseW, tc.baseH, tc.w, tc.h, x, y, tc.wantX, tc.wantY)
		}
	}
}

func TestOverlayFilter(t *testing.T) {
	// Overlay already fits: no scale stage, offsets centered.
	got := overlayFilter(1920, 1080, 1920, 1080)
	want := "[0:v][1:v]overlay=0:0[vout]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Oversized overlay: scaled down to fit, then centered.
	got = overlayFilter(1280, 720, 2560, 1440)
	want = "[1:v]scale=1280:720[ov];[0:v][ov]overlay=0:0[vout]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Smaller overlay stays its own size, centered.
	got = overlayFilter(1280, 720, 640, 360)
	want = "[0:v][1:v]overlay=320:180[vout]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
