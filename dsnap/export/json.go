package export

import (
	"encoding/json"
	"io"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// writeJSON serializes the tree envelope: the nested nodes keyed at the top
// by the root directory's base name. Map keys marshal lexicographically, so
// extension groups, file names and subdirectories come out sorted.
func writeJSON(tree *trees.DirectoryTree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(tree)
}
