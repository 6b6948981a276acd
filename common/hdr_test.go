package common

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"testing"
)

func hdrHeader(w, h int) []byte {
	var b bytes.Buffer
	b.WriteString("#?RADIANCE\n")
	b.WriteString("# made by hand\n")
	b.WriteString("FORMAT=32-bit_rle_rgbe\n\n")
	b.WriteString("-Y ")
	b.WriteString(strconv.Itoa(h))
	b.WriteString(" +X ")
	b.WriteString(strconv.Itoa(w))
	b.WriteString("\n")
	return b.Bytes()
}

func rgbeValue(m, e byte) float32 {
	if e == 0 {
		return 0
	}
	return float32(m) * float32(math.Ldexp(1, int(e)-136))
}

func TestDecodeHDRFlat(t *testing.T) {
	data := hdrHeader(2, 2)
	data = append(data,
		128, 64, 0, 129,
		0, 0, 0, 0,
		255, 255, 255, 128,
		10, 20, 30, 140,
	)

	img, err := DecodeHDR(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeHDR error: %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("size: got %dx%d, want 2x2", img.Width, img.Height)
	}

	tests := []struct {
		x, y int
		want [3]float32
	}{
		{0, 0, [3]float32{rgbeValue(128, 129), rgbeValue(64, 129), rgbeValue(0, 129)}},
		{1, 0, [3]float32{0, 0, 0}},
		{0, 1, [3]float32{rgbeValue(255, 128), rgbeValue(255, 128), rgbeValue(255, 128)}},
		{1, 1, [3]float32{rgbeValue(10, 140), rgbeValue(20, 140), rgbeValue(30, 140)}},
	}
	for _, tt := range tests {
		got := img.At(tt.x, tt.y)
		for c := range 3 {
			if math.Abs(float64(got[c]-tt.want[c])) > 1e-6 {
				t.Errorf("At(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
				break
			}
		}
	}
}

func TestDecodeHDRRunLength(t *testing.T) {
	const width = 8
	data := hdrHeader(width, 1)
	data = append(data, 2, 2, 0, width)
	// R: run of 8 x 100
	data = append(data, 128+8, 100)
	// G: literal 8 values
	data = append(data, 8, 0, 1, 2, 3, 4, 5, 6, 7)
	// B: run of 4 x 50, literal 4
	data = append(data, 128+4, 50, 4, 9, 9, 9, 9)
	// E: run of 8 x 130
	data = append(data, 128+8, 130)

	img, err := DecodeHDR(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeHDR error: %v", err)
	}

	for x := range width {
		got := img.At(x, 0)
		wantB := byte(50)
		if x >= 4 {
			wantB = 9
		}
		want := [3]float32{rgbeValue(100, 130), rgbeValue(byte(x), 130), rgbeValue(wantB, 130)}
		for c := range 3 {
			if math.Abs(float64(got[c]-want[c])) > 1e-6 {
				t.Errorf("pixel %d: got %v, want %v", x, got, want)
				break
			}
		}
	}
}

func TestDecodeHDRErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad signature", []byte("P6\n2 2\n255\n")},
		{"missing signature", []byte("FORMAT=32-bit_rle_rgbe\n\n-Y 1 +X 1\n\x00\x00\x00\x00")},
		{"xyze color model", []byte("#?RADIANCE\nFORMAT=32-bit_rle_xyze\n\n-Y 1 +X 1\n\x00\x00\x00\x00")},
		{"flipped orientation", []byte("#?RADIANCE\n\n+Y 1 +X 1\n\x00\x00\x00\x00")},
		{"truncated pixels", append(hdrHeader(2, 2), 1, 2, 3)},
		{"rle width mismatch", append(hdrHeader(8, 1), 2, 2, 0, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHDR(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("DecodeHDR expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidHDR) {
				t.Errorf("DecodeHDR error %v is not ErrInvalidHDR", err)
			}
		})
	}
}

func TestToneMappedRGBA(t *testing.T) {
	img := &HDRImage{Width: 2, Height: 1, Pix: []float32{0, 1, 3, 1000, -1, 0}}
	got := img.ToneMappedRGBA()
	want := []byte{0, 128, 191, 255, 255, 0, 0, 255}
	if !bytes.Equal(got, want) {
		t.Errorf("ToneMappedRGBA: got %v, want %v", got, want)
	}
}
