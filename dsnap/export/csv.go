package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

var csvHeader = []string{
	"directory_path",
	"file_name",
	"size_bytes",
	"modified_at",
	"created_at",
	"content_type",
	"content_hash",
	"readable",
	"writable",
	"executable",
}

// writeCSV flattens the whole tree to one row per file, depth-first with
// directories, extensions and names in lexicographic order. Directory paths
// join ancestor names with "/" starting at the root's base name.
func writeCSV(tree *trees.DirectoryTree, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	err := tree.WalkFiles(func(dirPath, name, _ string, meta *trees.FileMetadata) error {
		return cw.Write([]string{
			dirPath,
			name,
			strconv.FormatInt(meta.SizeBytes, 10),
			strconv.FormatInt(meta.ModifiedAt, 10),
			strconv.FormatInt(meta.CreatedAt, 10),
			meta.ContentType,
			meta.ContentHash,
			strconv.FormatBool(meta.Permissions.Readable),
			strconv.FormatBool(meta.Permissions.Writable),
			strconv.FormatBool(meta.Permissions.Executable),
		})
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
