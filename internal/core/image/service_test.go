package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, G: 107, B: 53, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestNormalize(t *testing.T) {
	svc := NewService(1 << 20)
	raw := pngBase64(t)

	for _, payload := range []string{raw, "data:image/png;base64," + raw} {
		got, err := svc.Normalize(payload)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
			t.Errorf("Normalize() = %.40s", got)
		}
	}
}

func TestValidate(t *testing.T) {
	raw := pngBase64(t)

	format, err := NewService(1 << 20).Validate(raw)
	if err != nil || format != "png" {
		t.Fatalf("Validate() = %q, %v", format, err)
	}

	tests := []struct {
		name    string
		svc     *Service
		payload string
	}{
		{"empty", NewService(1 << 20), ""},
		{"not base64", NewService(1 << 20), "%%%"},
		{"not an image", NewService(1 << 20), base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"too large", NewService(8), raw},
		{"data url without comma", NewService(1 << 20), "data:image/png;base64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Validate(tt.payload); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}
