package types

// Entry represents one directory listing result
type Entry struct {
	// Name is the entry's name within its directory
	Name string

	// Path is the full path to the entry, scheme prefix included for
	// remote backends
	Path string

	// Stat carries the metadata the backend returned with the listing
	Stat StatResult
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Stat.IsDir
}
