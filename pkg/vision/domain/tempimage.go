package domain

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
)

// TempImageScope passes request images to the inference runtime through uniquely named PNG files
// and guarantees their removal on every exit path. Orphaned temp files under concurrent load are
// the main leak risk of the whole design, which is why acquisition and release are fused into a
// single WithTempImage call instead of separate create/delete steps the caller could forget to pair.
type TempImageScope struct {
	dir    string
	logger common.Logger
}

func NewTempImageScope(config *common.Config, logger common.Logger) *TempImageScope {
	return &TempImageScope{
		dir:    config.GetStringOrDefault(ConfigKeyTempDir, os.TempDir()),
		logger: logger,
	}
}

// WithTempImage encodes `img` to a uniquely named PNG file, invokes `body` with its path and removes
// the file afterwards no matter how `body` exits (success, error or panic). Creation is retried once
// with a fresh name before a *ResourceError is surfaced.
func (t *TempImageScope) WithTempImage(img image.Image, body func(path string) error) error {
	var path string
	err := common.WithRetry(func() error {
		path = t.nextPath()
		return writePNG(path, img)
	}, common.DefaultRetryConfig())
	if err != nil {
		return &ResourceError{Path: path, Cause: err}
	}
	defer t.remove(path)
	return body(path)
}

// nextPath returns a collision-free path even under concurrent requests.
func (t *TempImageScope) nextPath() string {
	return filepath.Join(t.dir, "gemma3vd_"+uuid.NewString()+".png")
}

func (t *TempImageScope) remove(path string) {
	// A removal failure must not turn an already produced answer into an error, so it is retried
	// once and then only logged.
	err := common.WithRetry(func() error {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}, common.DefaultRetryConfig())
	if err != nil {
		t.logger.Log("failed to remove temp image \"" + path + "\": " + err.Error())
	}
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = png.Encode(file, img)
	closeErr := file.Close()
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	if closeErr != nil {
		_ = os.Remove(path)
	}
	return closeErr
}
