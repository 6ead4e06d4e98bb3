package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo identifies one version of a file on disk
type FileInfo struct {
	ModTime int64  // modification time in nanoseconds
	Size    int64  // file size in bytes
	Inode   uint64 // changes when an editor replaces the file
}

// GetFileInfo retrieves detailed file information, including inode number.
// Supported on Linux and macOS.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   sysStat.Ino,
	}, nil
}
