// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded listing and showroom images. Only
// JPEG, PNG and WebP are accepted; the file extension and the decoded
// header must agree, and the pixel count is capped so oversized images
// are rejected before they reach storage.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxBytes is the largest accepted upload.
	MaxBytes = 10 << 20

	// MaxPixels caps width*height of an accepted image.
	MaxPixels = 40_000_000
)

var (
	// ErrUnsupported is returned for anything that is not a JPEG, PNG or WebP image.
	ErrUnsupported = errors.New("Images only!")

	// ErrTooLarge is returned when the image exceeds MaxBytes or MaxPixels.
	ErrTooLarge = errors.New("image too large")
)

// formats maps accepted extensions to the decoder name image.DecodeConfig reports.
var formats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".webp": "webp",
}

// Info describes a validated image.
type Info struct {
	Ext         string // lowercased extension including the dot
	Format      string // "jpeg", "png" or "webp"
	ContentType string
	Width       int
	Height      int
}

// Validate checks the file name and content of an uploaded image.
func Validate(filename string, data []byte) (*Info, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := formats[ext]
	if !ok {
		return nil, ErrUnsupported
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if format != want {
		return nil, fmt.Errorf("%w: %s content with %s extension", ErrUnsupported, format, ext)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, ErrTooLarge
	}

	return &Info{
		Ext:         ext,
		Format:      format,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
