package report

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/openguard/openguard/internal/core"
)

// ZipBase64 packages the corrected files into a ZIP archive and returns it
// base64-encoded, ready to embed in the JSON response.
func ZipBase64(files []core.CorrectedFile) (string, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, f := range files {
		entry, err := w.Create(f.Filename)
		if err != nil {
			return "", fmt.Errorf("creating zip entry for %s: %w", f.Filename, err)
		}
		if _, err := entry.Write([]byte(f.Content)); err != nil {
			return "", fmt.Errorf("writing zip entry for %s: %w", f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing zip archive: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
