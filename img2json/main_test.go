package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/tiggercwh/go-picross/picross"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"15x10", 15, 10, true},
		{"4X4", 4, 4, true},
		{"15", 0, 0, false},
		{"0x3", 0, 0, false},
		{"ax3", 0, 0, false},
		{"100000x100000", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, err := parseSize(tt.in)
		if (err == nil) != tt.ok || w != tt.w || h != tt.h {
			t.Errorf("parseSize(%q) = %d, %d, %v", tt.in, w, h, err)
		}
	}
}

func TestConvert(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, A: 255})
		}
		img.Set(3, y, color.NRGBA{B: 255, A: 128})
	}
	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	p, err := convert(bytes.NewReader(src.Bytes()), &out, "half", 2, 1)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if p.Width() != 2 || p.Height() != 1 {
		t.Fatalf("size = %dx%d, want 2x1", p.Width(), p.Height())
	}

	d, err := picross.ReadDefinition(&out)
	if err != nil {
		t.Fatalf("output does not read back: %v", err)
	}
	back, err := d.Puzzle()
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "half" {
		t.Errorf("name = %q", d.Name)
	}
	if !back.Target(0, 0).Equal(picross.Some(picross.RGB(200, 100, 0))) {
		t.Errorf("cell 0 = %v", back.Target(0, 0))
	}
	if back.Target(1, 0).Valid {
		t.Errorf("translucent cell kept: %v", back.Target(1, 0))
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	if _, err := convert(bytes.NewReader([]byte("nope")), &bytes.Buffer{}, "x", 0, 0); err == nil {
		t.Error("garbage input converted")
	}
}
