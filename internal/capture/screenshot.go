package capture

import (
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/vovakirdan/yolk/internal/core"
)

// WritePNG saves the canvas to path, replacing any existing file.
func WritePNG(path string, c *core.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", path, err)
	}

	encErr := png.Encode(f, toRGBA(nil, c))
	closeErr := f.Close()
	if err := errors.Join(encErr, closeErr); err != nil {
		return fmt.Errorf("capture: write %s: %w", path, err)
	}
	return nil
}
