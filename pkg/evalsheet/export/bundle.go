package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// Bundle packs files into one zip archive. Duplicate names get a numeric prefix.
func Bundle(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]bool, len(files))
	now := time.Now()

	for _, f := range files {
		name := f.Name
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%d_%s", n, f.Name)
		}
		used[name] = true

		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
