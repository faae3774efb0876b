package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// ZipEntry is one file in an archive
type ZipEntry struct {
	Name     string
	Body     []byte
	Modified time.Time
}

// WriteZip streams entries into a ZIP archive on w, in the given order
func WriteZip(w io.Writer, entries []ZipEntry) error {
	zipWriter := zip.NewWriter(w)

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: entry.Modified,
		}
		fileWriter, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create %s: %w", entry.Name, err)
		}
		if _, err := fileWriter.Write(entry.Body); err != nil {
			return fmt.Errorf("write %s: %w", entry.Name, err)
		}
	}

	return zipWriter.Close()
}
