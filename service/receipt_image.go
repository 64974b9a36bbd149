package service

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	receiptCacheDir = "cache/receipts"
	// Captures come out at 2x device scale; clamp the delivered image width.
	maxReceiptWidth = 1280
)

// EnsureReceiptCacheDir ensures the receipt cache directory exists.
func EnsureReceiptCacheDir() error {
	if err := os.MkdirAll(receiptCacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create receipt cache directory: %w", err)
	}
	return nil
}

// ReceiptCachePath returns the cache file path for an order's receipt image.
func ReceiptCachePath(orderID string) string {
	return filepath.Join(receiptCacheDir, fmt.Sprintf("receipt_%s.png", orderID))
}

// CachedReceipt reads a previously generated receipt image, if any.
func CachedReceipt(orderID string) ([]byte, bool) {
	data, err := os.ReadFile(ReceiptCachePath(orderID))
	if err != nil {
		return nil, false
	}
	return data, true
}

// SaveReceiptToCache stores a generated receipt image for later reuse.
func SaveReceiptToCache(orderID string, data []byte) error {
	path := ReceiptCachePath(orderID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create receipt cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write receipt to cache: %w", err)
	}
	log.Printf("✓ Receipt cached: %s", path)
	return nil
}

// OptimizeReceiptPNG re-encodes a captured receipt, downscaling it when the
// 2x capture exceeds the delivery width. Aspect ratio is preserved.
func OptimizeReceiptPNG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode receipt image: %w", err)
	}
	log.Printf("📸 Receipt decoded: format=%s, bounds=%v", format, img.Bounds())

	if width := img.Bounds().Dx(); width > maxReceiptWidth {
		log.Printf("🔄 Resizing receipt: width %d -> %d", width, maxReceiptWidth)
		img = imaging.Resize(img, maxReceiptWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode receipt image: %w", err)
	}
	return buf.Bytes(), nil
}
