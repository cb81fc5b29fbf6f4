package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// topN bounds the ranked lists in a summary.
const topN = 5

// ExtensionUsage pairs an extension with the bytes its files occupy.
type ExtensionUsage struct {
	Extension string `json:"extension"`
	SizeBytes int64  `json:"size_bytes"`
}

// PathSize pairs a tree path with a size.
type PathSize struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// DuplicateGroup describes one tree-global set of files sharing a content
// hash. Unlike the per-directory duplicates recorded on nodes, these groups
// span directory boundaries.
type DuplicateGroup struct {
	ContentHash string   `json:"content_hash"`
	Files       []string `json:"files"` // full tree paths, lexicographic
	Count       int      `json:"count"`
	SizeBytes   int64    `json:"size_bytes"`   // size of a single instance
	WastedBytes int64    `json:"wasted_bytes"` // bytes recoverable by keeping one copy
}

// SizeStats summarizes the distribution of included file sizes.
type SizeStats struct {
	MeanBytes   float64 `json:"mean_bytes"`
	MedianBytes float64 `json:"median_bytes"`
	P90Bytes    float64 `json:"p90_bytes"`
}

// Summary holds the global statistics computed from one finished tree.
type Summary struct {
	TotalFiles           int              `json:"total_files"`
	TotalDirectories     int              `json:"total_directories"` // root excluded
	DiskUsageByExtension map[string]int64 `json:"disk_usage_by_extension"`
	MostUsedExtensions   []ExtensionUsage `json:"most_used_extensions"`
	LeastUsedExtensions  []ExtensionUsage `json:"least_used_extensions"`
	LargestFiles         []PathSize       `json:"largest_files"`
	LargestFolders       []PathSize       `json:"largest_folders"`
	EmptyDirectories     []string         `json:"empty_directories"`
	ZeroByteFiles        []string         `json:"zero_byte_files"`
	SizeStats            SizeStats        `json:"size_stats"`
	DuplicateGroups      []DuplicateGroup `json:"duplicate_groups,omitempty"`
}

// Analyze walks a finished tree once and derives the summary. The tree is
// read-only to the analyzer; all paths in the summary start at the root's
// base name, matching the exporters.
func Analyze(tree *trees.DirectoryTree) *Summary {
	summary := &Summary{
		DiskUsageByExtension: make(map[string]int64),
	}

	var (
		files     []PathSize
		folders   []PathSize
		sizes     []float64
		hashPaths = make(map[string][]string)
		hashSizes = make(map[string]int64)
	)

	tree.Walk(func(dirPath string, node *trees.DirectoryNode) error {
		if dirPath != tree.RootName {
			summary.TotalDirectories++
			folders = append(folders, PathSize{Path: dirPath, SizeBytes: node.TotalSizeBytes})
			if node.IsEmpty() {
				summary.EmptyDirectories = append(summary.EmptyDirectories, dirPath)
			}
		}

		for _, ext := range node.Extensions() {
			group := node.FilesByExtension[ext]
			for _, name := range node.FileNames(ext) {
				meta := group[name]
				filePath := dirPath + "/" + name
				summary.TotalFiles++
				summary.DiskUsageByExtension[ext] += meta.SizeBytes
				files = append(files, PathSize{Path: filePath, SizeBytes: meta.SizeBytes})
				sizes = append(sizes, float64(meta.SizeBytes))
				hashPaths[meta.ContentHash] = append(hashPaths[meta.ContentHash], filePath)
				hashSizes[meta.ContentHash] = meta.SizeBytes
				if meta.SizeBytes == 0 {
					summary.ZeroByteFiles = append(summary.ZeroByteFiles, filePath)
				}
			}
		}
		return nil
	})

	summary.MostUsedExtensions = rankUsage(summary.DiskUsageByExtension, false)
	summary.LeastUsedExtensions = rankUsage(summary.DiskUsageByExtension, true)
	summary.LargestFiles = rankSizes(files)
	summary.LargestFolders = rankSizes(folders)
	summary.SizeStats = sizeStats(sizes)
	summary.DuplicateGroups = duplicateGroups(hashPaths, hashSizes)

	return summary
}

// rankUsage orders extensions by byte usage, descending for the most-used
// list and ascending for the least-used one, extension name breaking ties.
func rankUsage(usage map[string]int64, ascending bool) []ExtensionUsage {
	ranked := make([]ExtensionUsage, 0, len(usage))
	for ext, size := range usage {
		ranked = append(ranked, ExtensionUsage{Extension: ext, SizeBytes: size})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SizeBytes != ranked[j].SizeBytes {
			if ascending {
				return ranked[i].SizeBytes < ranked[j].SizeBytes
			}
			return ranked[i].SizeBytes > ranked[j].SizeBytes
		}
		return ranked[i].Extension < ranked[j].Extension
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// rankSizes returns the topN entries by size descending, path breaking ties.
func rankSizes(entries []PathSize) []PathSize {
	sorted := make([]PathSize, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SizeBytes != sorted[j].SizeBytes {
			return sorted[i].SizeBytes > sorted[j].SizeBytes
		}
		return sorted[i].Path < sorted[j].Path
	})
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}

// sizeStats computes mean, median and p90 over the included file sizes.
func sizeStats(sizes []float64) SizeStats {
	if len(sizes) == 0 {
		return SizeStats{}
	}
	sorted := make([]float64, len(sizes))
	copy(sorted, sizes)
	sort.Float64s(sorted)
	return SizeStats{
		MeanBytes:   stat.Mean(sorted, nil),
		MedianBytes: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90Bytes:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}

// duplicateGroups folds the hash->paths map into groups with two or more
// members, ordered by member count, then wasted size, then hash.
func duplicateGroups(hashPaths map[string][]string, hashSizes map[string]int64) []DuplicateGroup {
	var groups []DuplicateGroup
	for hash, paths := range hashPaths {
		if len(paths) < 2 {
			continue
		}
		sorted := make([]string, len(paths))
		copy(sorted, paths)
		sort.Strings(sorted)
		size := hashSizes[hash]
		groups = append(groups, DuplicateGroup{
			ContentHash: hash,
			Files:       sorted,
			Count:       len(sorted),
			SizeBytes:   size,
			WastedBytes: size * int64(len(sorted)-1),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].SizeBytes != groups[j].SizeBytes {
			return groups[i].SizeBytes > groups[j].SizeBytes
		}
		return groups[i].ContentHash < groups[j].ContentHash
	})
	return groups
}
