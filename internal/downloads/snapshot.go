package downloads

// Snapshot is a point-in-time set of filenames observed in a directory. It is
// used as a diff baseline: entries present later but absent from the baseline
// are download candidates. The baseline must be captured strictly before the
// action that triggers a download, or the new file is invisible to the diff.
type Snapshot map[string]struct{}

// NewSnapshot builds a snapshot from a list of names.
func NewSnapshot(names []string) Snapshot {
	snapshot := make(Snapshot, len(names))
	for _, name := range names {
		snapshot[name] = struct{}{}
	}
	return snapshot
}

// Contains reports whether the snapshot holds the given name.
func (s Snapshot) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
