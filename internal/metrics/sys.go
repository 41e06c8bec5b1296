package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// Usage summarizes the files under the data directory.
type Usage struct {
	Files int
	Bytes int64
}

// String renders the usage as "3 files, 12 kB".
func (u Usage) String() string {
	noun := "files"
	if u.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s, %s", u.Files, noun, humanize.Bytes(uint64(u.Bytes)))
}

// DataUsage walks dir and totals regular file sizes. A missing dir is empty.
func DataUsage(dir string) (Usage, error) {
	var u Usage
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		u.Files++
		u.Bytes += info.Size()
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return Usage{}, nil
	}
	if err != nil {
		return Usage{}, fmt.Errorf("failed to measure %s: %w", dir, err)
	}
	return u, nil
}

// SysHealth is a point-in-time view of the process and its data.
type SysHealth struct {
	Alloc      string
	Sys        string
	NumGC      uint32
	Goroutines int
	Data       Usage
}

// GetSysHealth collects runtime memory figures and the data dir usage.
func GetSysHealth(dataPath string) (SysHealth, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage, err := DataUsage(dataPath)
	if err != nil {
		return SysHealth{}, err
	}
	return SysHealth{
		Alloc:      humanize.IBytes(m.Alloc),
		Sys:        humanize.IBytes(m.Sys),
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		Data:       usage,
	}, nil
}
