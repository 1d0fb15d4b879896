// Package zip bundles saved images into a single archive download.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// Entry is one file inside the archive.
type Entry struct {
	Filename string
	Modified time.Time
	Data     []byte
}

// Write streams entries into w as a zip archive. Image payloads are stored
// without compression because PNG and JPEG data does not shrink further.
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.Filename,
			Method:   zip.Store,
			Modified: entry.Modified,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", entry.Filename, err)
		}
		if _, err := fw.Write(entry.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", entry.Filename, err)
		}
	}
	return zw.Close()
}
