package detector

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"
)

// decodeConfig reads image dimensions without decoding pixel data
func decodeConfig(raw []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	return cfg, err
}

// sleepCtx sleeps for d or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
