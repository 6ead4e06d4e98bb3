package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// FileScanner finds timeline documents under a directory
type FileScanner struct {
	baseDir string
	ext     string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		ext:     ".json",
	}
}

// Scan returns every .json file below the base directory, sorted by path
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		if strings.EqualFold(filepath.Ext(path), s.ext) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("Directory scan completed: duration %v, %d directories, found %d timelines",
		time.Since(start), dirCount, len(files)))

	return files, err
}

// ExpandSources replaces directory arguments with the timelines they contain.
// Remote locators and plain files pass through in order.
func ExpandSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			out = append(out, arg)
			continue
		}
		files, err := NewFileScanner(arg).Scan()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		if len(files) == 0 {
			util.LogWarn(fmt.Sprintf("No timelines found in %s", arg))
		}
		out = append(out, files...)
	}
	return out, nil
}
