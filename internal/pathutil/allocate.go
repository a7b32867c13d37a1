package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AllocatePath returns a path inside dir that does not exist at call time,
// probing "base.ext", "base_1.ext", "base_2.ext", … until a free name is
// found. The result is only guaranteed free at the moment of the check:
// another writer can claim it before the caller creates the file, so file
// creation remains the source of truth. Callers that need an atomic claim
// should use CreateUnique instead.
func AllocatePath(dir, baseName, extension string) string {
	candidate := filepath.Join(dir, baseName+extension)
	for counter := 1; pathExists(candidate); counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", baseName, counter, extension))
	}
	return candidate
}

// CreateUnique opens a new file in dir under a collision-free variant of
// baseName+extension, retrying allocation whenever creation loses the race to
// a concurrent writer.
func CreateUnique(dir, baseName, extension string) (*os.File, error) {
	for counter := 0; ; counter++ {
		name := baseName + extension
		if counter > 0 {
			name = fmt.Sprintf("%s_%d%s", baseName, counter, extension)
		}

		file, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
