// Package download saves the auxiliary campus archive to a user-chosen file.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// ErrCancelled is returned when the user dismisses the save dialog.
var ErrCancelled = errors.New("download cancelled")

// Saver picks the destination path for a file with the suggested name.
type Saver interface {
	SavePath(suggested string) (string, error)
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(suggested string) (string, error)

// SavePath calls f.
func (f SaverFunc) SavePath(suggested string) (string, error) { return f(suggested) }

// Archive is a downloadable file. Source is a local path or an http(s) URL.
type Archive struct {
	Source   string
	FileName string
	Saver    Saver
	Client   *http.Client
	Logger   *zap.Logger
}

// Download reads the archive, asks the saver for a destination and writes
// the bytes there. It returns the written path, or ErrCancelled if the user
// declined to pick one.
func (a *Archive) Download(ctx context.Context) (string, error) {
	log := a.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("source", a.Source))

	data, err := a.fetch(ctx)
	if err != nil {
		log.Error("archive fetch failed", zap.Error(err))
		return "", err
	}

	name := a.FileName
	if name == "" {
		name = filepath.Base(a.Source)
	}
	dest, err := a.Saver.SavePath(name)
	if errors.Is(err, ErrCancelled) {
		log.Debug("save cancelled")
		return "", ErrCancelled
	}
	if err != nil {
		log.Error("save dialog failed", zap.Error(err))
		return "", fmt.Errorf("download: choosing destination: %w", err)
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		log.Error("archive write failed", zap.String("dest", dest), zap.Error(err))
		return "", fmt.Errorf("download: %w", err)
	}

	log.Info("archive saved", zap.String("dest", dest), zap.Int("bytes", len(data)))
	return dest, nil
}

func (a *Archive) fetch(ctx context.Context) ([]byte, error) {
	if !isURL(a.Source) {
		data, err := os.ReadFile(a.Source)
		if err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
		return data, nil
	}

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	return data, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
