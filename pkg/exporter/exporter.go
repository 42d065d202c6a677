// Package exporter serializes rendered composites to downloadable
// files.
//
// Output follows a unified pipeline: the compositor produces an
// image.Image, which is written as PNG (the default) or BMP based on
// the file extension.
package exporter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/craftpress/mockup/pkg/catalog"
)

// Write creates an output file. The format is inferred from the file
// extension:
//   - ".png" → PNG image
//   - ".bmp" → BMP image
func Write(output string, img image.Image) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := Encode(f, filepath.Ext(output), img); err != nil {
		return err
	}
	return nil
}

// Encode writes img to w in the format named by ext (".png" or ".bmp").
// Useful for in-memory serialization (HTTP responses, WASM).
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png", "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode PNG: %w", err)
		}
		return nil
	case ".bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encode BMP: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use .png or .bmp", ext)
	}
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName derives the download name for a composite:
// {template-name-or-"custom-template"}-{print-method}-mockup.png.
func FileName(templateName string, method catalog.PrintMethod) string {
	name := slug(templateName)
	if name == "" {
		name = "mockup"
	}
	return fmt.Sprintf("%s-%s-mockup.png", name, method)
}

// slug lowercases and hyphenates a display name for use in file names.
func slug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
