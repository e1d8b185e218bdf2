// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

func writeZip(w io.Writer, fsys afero.Fs, members []member, modTime time.Time) error {
	zw := zip.NewWriter(w)

	for _, m := range members {
		if err := writeZipMember(zw, fsys, m, modTime); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish zip stream: %w", err)
	}
	return nil
}

func writeZipMember(zw *zip.Writer, fsys afero.Fs, m member, modTime time.Time) error {
	hdr, err := zip.FileInfoHeader(m.info)
	if err != nil {
		return fmt.Errorf("failed to create zip header for %s: %w", m.name, err)
	}
	hdr.Name = m.name
	hdr.Modified = memberTime(m, modTime)
	if m.info.IsDir() {
		hdr.Method = zip.Store
	} else {
		hdr.Method = zip.Deflate
	}

	fw, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", m.name, err)
	}
	if m.info.IsDir() {
		return nil
	}
	return copyMember(fw, fsys, m)
}
