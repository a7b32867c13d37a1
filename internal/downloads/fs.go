package downloads

import (
	"os"
	"time"
)

// FileStat is the subset of file metadata the watcher polls.
type FileStat struct {
	Size    int64
	ModTime time.Time
}

// DirFS abstracts the directory operations the watcher needs, so tests can
// substitute an in-memory directory for real disk I/O.
type DirFS interface {
	// List returns the names of all entries in dir.
	List(dir string) ([]string, error)
	// Stat returns size and modification time for a single path.
	Stat(path string) (FileStat, error)
}

type osFS struct{}

func (osFS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (osFS) Stat(path string) (FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStat{}, err
	}
	return FileStat{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// OSDirFS returns a DirFS backed by the real filesystem.
func OSDirFS() DirFS {
	return osFS{}
}
