package common

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// ReadAllFromURL reads all content from the URL.
// TODO Unsafe if the URL is a dynamic page which infinitely streams output -- we can crash with an OOM in that case.
func ReadAllFromURL(url string) ([]byte, error) {
	res, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(res.Body)
	defer func() {
		_ = res.Body.Close()
	}()
	if err != nil {
		return nil, err
	}
	return content, nil
}

// DownloadFromURL downloads the content of the URL to the file specified by `filePath`.
// Non-2xx responses are reported as errors because the inference pipeline must not be fed an HTML error page
// pretending to be an image.
func DownloadFromURL(url, filePath string) error {
	res, err := http.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("failed to download \"%s\": status %d", url, res.StatusCode)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, res.Body)
	closeErr := file.Close()
	if err != nil {
		return err
	}
	return closeErr
}
