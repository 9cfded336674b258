// Package export encodes the post collection for clipboard and file download.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-ports/postboard/internal/models"
)

// MIMEType is the content type of the exported file.
const MIMEType = "application/json"

// ErrEmpty is returned when there is nothing to export. Callers hide their
// export controls instead of exporting an empty array.
var ErrEmpty = errors.New("no posts to export")

// ToJSONText returns posts as a JSON array indented by two spaces, in
// collection order.
func ToJSONText(posts []models.Post) (string, error) {
	if len(posts) == 0 {
		return "", ErrEmpty
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export.ToJSONText: %w", err)
	}
	return string(data), nil
}

// DownloadName returns the file name for an export taken at now:
// blogs_<epoch-ms>.json. Two exports in the same millisecond get the same
// name and the later one overwrites the earlier.
func DownloadName(now time.Time) string {
	return "blogs_" + strconv.FormatInt(now.UnixMilli(), 10) + ".json"
}

// WriteDownload writes the JSON export of posts into dir under
// DownloadName(now) and returns the full path.
func WriteDownload(dir string, posts []models.Post, now time.Time) (string, error) {
	text, err := ToJSONText(posts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, DownloadName(now))
	if err := atomicWriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("export.WriteDownload: %w", err)
	}
	return path, nil
}

// atomicWriteFile writes data to a temporary file in the target directory
// and renames it over filename, so readers never see a partial export.
func atomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	closed = true

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
