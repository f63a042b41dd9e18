package file

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// DownloadFile returns the byte content of a file on a provided URL. Responses larger than maxBytes are rejected;
// maxBytes <= 0 disables the limit.
func DownloadFile(ctx context.Context, path string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	var body io.Reader = res.Body
	if maxBytes > 0 {
		body = io.LimitReader(res.Body, maxBytes+1)
	}

	buf, err := io.ReadAll(body)
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	if maxBytes > 0 && int64(len(buf)) > maxBytes {
		return nil, fmt.Errorf("file exceeds limit of %d bytes", maxBytes)
	}

	return buf, nil
}

// ReadImage reads a local image file and returns its content with the MIME type derived from the file extension,
// or from the content if the extension is unknown.
func ReadImage(path string) ([]byte, string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading file %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(buf)
	}

	log.Debug().Str("path", path).Int("bytes", len(buf)).Str("mimeType", mimeType).Msg("read image")

	return buf, mimeType, nil
}

// WriteFile atomically replaces path with data by writing a uniquely named temp file next to it first.
func WriteFile(path string, data []byte) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.tmp", id.String()))

	log.Debug().Int("bytes", len(data)).Str("path", tmp).Msg("creating temp file")

	f, err := os.Create(tmp)
	if err != nil {
		err = fmt.Errorf("error creating temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		RemoveTempFile(tmp)
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := f.Close(); err != nil {
		RemoveTempFile(tmp)
		return fmt.Errorf("error closing temp file %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		RemoveTempFile(tmp)
		return fmt.Errorf("error moving temp file into place %w", err)
	}

	log.Debug().Str("path", path).Msg("wrote file")

	return nil
}

// RemoveTempFile removes a specified temporary file at the given path and logs success or failure.
func RemoveTempFile(path string) {
	err := os.Remove(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", path).Msg("cleaned up temp file")
}
