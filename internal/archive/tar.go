// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

func writeTarGz(w io.Writer, fsys afero.Fs, members []member, modTime time.Time) (err error) {
	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(gz)

	for _, m := range members {
		if err = writeTarMember(tw, fsys, m, modTime); err != nil {
			return err
		}
	}

	if err = tw.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}

func writeTarMember(tw *tar.Writer, fsys afero.Fs, m member, modTime time.Time) error {
	hdr, err := tar.FileInfoHeader(m.info, "")
	if err != nil {
		return fmt.Errorf("failed to create tar header for %s: %w", m.name, err)
	}
	hdr.Name = m.name
	hdr.Mode = int64(m.info.Mode().Perm())
	hdr.ModTime = memberTime(m, modTime)
	hdr.AccessTime = time.Time{}
	hdr.ChangeTime = time.Time{}
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", m.name, err)
	}
	if m.info.IsDir() {
		return nil
	}
	return copyMember(tw, fsys, m)
}
