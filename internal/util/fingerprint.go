package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const fingerprintWindow = 4096

// CalculateFileFingerprint returns a CRC32 of the first and last 4KB of a
// file, or of the whole file when it is smaller than 8KB.
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	size := stat.Size()
	h := crc32.NewIEEE()
	if size <= 2*fingerprintWindow {
		if _, err := io.Copy(h, file); err != nil {
			return "", err
		}
		return fmt.Sprintf("%08x", h.Sum32()), nil
	}

	if _, err := io.CopyN(h, file, fingerprintWindow); err != nil {
		return "", err
	}
	if _, err := file.Seek(-fingerprintWindow, io.SeekEnd); err != nil {
		return "", err
	}
	if _, err := io.CopyN(h, file, fingerprintWindow); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", h.Sum32()), nil
}
