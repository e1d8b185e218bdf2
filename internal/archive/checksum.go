// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// ChecksumSuffix is appended to an archive path to name its checksum file.
const ChecksumSuffix = ".b3"

// ChecksumPath returns the checksum file path for an archive.
func ChecksumPath(archivePath string) string { return archivePath + ChecksumSuffix }

// WriteChecksum writes a b3sum-compatible line ("<digest>  <name>") next to
// the archive and returns the checksum file path.
func WriteChecksum(fsys afero.Fs, res Result) (string, error) {
	path := ChecksumPath(res.Path)
	line := fmt.Sprintf("%s  %s\n", res.Digest, filepath.Base(res.Path))
	if err := afero.WriteFile(fsys, path, []byte(line), 0o644); err != nil {
		return "", fmt.Errorf("failed to write checksum %s: %w", path, err)
	}
	return path, nil
}
