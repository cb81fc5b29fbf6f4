package index

// FileID is the ordinal of a file inside one snapshot index, assigned in
// tree walk order (depth-first, lexicographic), so an unchanged tree always
// indexes identically. The uint32 width matches the roaring containers.
type FileID = uint32

// FileRecord holds the columns one file contributes to the index. Everything
// here is derived from the tree; the index never touches the filesystem.
type FileRecord struct {
	Path    string // tree-relative path, root base name first
	Name    string
	Ext     string // lowercase dot extension, "" for extensionless
	Size    int64
	ModTime int64  // unix seconds
	Depth   uint16 // directories below the root
	ExtID   uint32 // position in the extension dictionary
}

// Stats summarizes an index for logging and the query surface.
type Stats struct {
	Files      int
	Extensions int
}
