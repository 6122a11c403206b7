// Package archive bundles per-script narration results for download.
package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Entry is one named file destined for the bundle.
type Entry struct {
	Name string
	Data []byte
}

// WriteZip writes the entries to w as a zip bundle, preserving the given
// order. Duplicate names get a numeric suffix rather than clobbering an
// earlier entry.
func WriteZip(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)

	seen := make(map[string]int, len(entries))
	var total int
	for _, entry := range entries {
		name := entry.Name
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		seen[entry.Name]++

		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("archive: create entry %q: %w", name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			return fmt.Errorf("archive: write entry %q: %w", name, err)
		}
		total += len(entry.Data)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: finalize: %w", err)
	}

	log.Debug("bundle written", "entries", len(entries), "raw_size", humanize.Bytes(uint64(total)))
	return nil
}
