package index

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// Index is a read-only columnar view over one finished tree, built for
// extension and size-range queries without re-walking the tree. Like the
// tree it derives from, an Index is immutable and safe for concurrent
// readers.
type Index struct {
	records    []FileRecord // FileID -> record
	extDict    map[string]uint32
	bitmaps    *extBitmaps
	sizeLayout []int64  // eytzinger-ordered size column
	sizeIDs    []FileID // layout position -> FileID
	logger     *slog.Logger
}

// Build indexes every included file of the tree.
func Build(tree *trees.DirectoryTree, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{
		extDict: make(map[string]uint32),
		bitmaps: newExtBitmaps(),
		logger:  logger,
	}

	tree.WalkFiles(func(dirPath, name, ext string, meta *trees.FileMetadata) error {
		extID, ok := ix.extDict[ext]
		if !ok {
			extID = uint32(len(ix.extDict))
			ix.extDict[ext] = extID
		}
		id := FileID(len(ix.records))
		ix.records = append(ix.records, FileRecord{
			Path:    dirPath + "/" + name,
			Name:    name,
			Ext:     ext,
			Size:    meta.SizeBytes,
			ModTime: meta.ModifiedAt,
			Depth:   uint16(strings.Count(dirPath, "/")),
			ExtID:   extID,
		})
		ix.bitmaps.add(extID, id)
		return nil
	})

	// size column pre-sorted by (size, path) so range results come out in
	// that order
	ids := make([]FileID, len(ix.records))
	for i := range ids {
		ids[i] = FileID(i)
	}
	sort.Slice(ids, func(a, b int) bool {
		ra, rb := ix.records[ids[a]], ix.records[ids[b]]
		if ra.Size != rb.Size {
			return ra.Size < rb.Size
		}
		return ra.Path < rb.Path
	})
	sizes := make([]int64, len(ids))
	for i, id := range ids {
		sizes[i] = ix.records[id].Size
	}
	ix.sizeLayout, ix.sizeIDs = buildEytzinger(sizes, ids)

	logger.Debug("snapshot index built",
		"files", len(ix.records),
		"extensions", len(ix.extDict))

	return ix
}

// Len returns the number of indexed files.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Stats returns the index dimensions.
func (ix *Index) Stats() Stats {
	return Stats{Files: len(ix.records), Extensions: len(ix.extDict)}
}

// FilesWithExtension returns every file carrying one of the given
// extensions, in tree walk order. Extensions normalize like the builder's
// allow-list ("TXT" matches ".txt"); "" selects extensionless files.
func (ix *Index) FilesWithExtension(extensions ...string) []FileRecord {
	extIDs := make([]uint32, 0, len(extensions))
	for _, ext := range extensions {
		if id, ok := ix.extDict[normalizeExt(ext)]; ok {
			extIDs = append(extIDs, id)
		}
	}
	matched := ix.bitmaps.union(extIDs...)

	records := make([]FileRecord, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		records = append(records, ix.records[it.Next()])
	}
	return records
}

// FilesInSizeRange returns every file with min <= size <= max, ascending by
// size with paths breaking ties.
func (ix *Index) FilesInSizeRange(min, max int64) []FileRecord {
	ids := rangeIDs(ix.sizeLayout, ix.sizeIDs, min, max)
	records := make([]FileRecord, len(ids))
	for i, id := range ids {
		records[i] = ix.records[id]
	}
	return records
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
