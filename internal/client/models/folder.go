package models

// ResolvedFolder is a flattened folder: slash-joined name path plus id.
type ResolvedFolder struct {
	Path string
	ID   ID
}

// RootFolder is a cached top-level folder.
type RootFolder struct {
	Name     string
	FolderID string
	ParentID string
}

// LookupStatus tags the outcome of a bounded folder search.
type LookupStatus int

const (
	LookupNotFound LookupStatus = iota
	LookupFound
	LookupCycleDetected
	LookupDepthExceeded
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupCycleDetected:
		return "cycle_detected"
	case LookupDepthExceeded:
		return "depth_exceeded"
	default:
		return "not_found"
	}
}

// LookupResult is the outcome of searching the tree for a folder id.
// Path is set only when Status is LookupFound.
type LookupResult struct {
	Status LookupStatus
	Path   string
}

func Found(path string) LookupResult {
	return LookupResult{Status: LookupFound, Path: path}
}
