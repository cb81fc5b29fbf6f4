package export

import (
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/analysis"
	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// htmlPage is the data handed to the page template.
type htmlPage struct {
	RootPath string
	TakenAt  string
	Root     *nodeView
	Summary  *analysis.Summary
}

// nodeView is a render-ready projection of one directory node with all
// ordering resolved ahead of the template.
type nodeView struct {
	Name           string
	Depth          int
	TotalSizeBytes int64
	FileCount      int
	Files          []fileView
	Children       []*nodeView
	Duplicates     []duplicateView
}

type fileView struct {
	Name string
	Meta *trees.FileMetadata
}

type duplicateView struct {
	ContentHash string
	Names       string // comma-joined
}

// writeHTML renders a standalone page: a header with the original root path,
// an optional summary block and the collapsible node tree.
func writeHTML(tree *trees.DirectoryTree, summary *analysis.Summary, w io.Writer) error {
	page := &htmlPage{
		RootPath: tree.RootPath,
		TakenAt:  tree.TakenAt.Format(time.RFC3339),
		Root:     buildNodeView(tree.RootName, tree.Root, 0),
		Summary:  summary,
	}
	return htmlTmpl.Execute(w, page)
}

func buildNodeView(name string, node *trees.DirectoryNode, depth int) *nodeView {
	view := &nodeView{
		Name:           name,
		Depth:          depth,
		TotalSizeBytes: node.TotalSizeBytes,
		FileCount:      node.FileCount,
	}
	for _, ext := range node.Extensions() {
		group := node.FilesByExtension[ext]
		for _, fileName := range node.FileNames(ext) {
			view.Files = append(view.Files, fileView{Name: fileName, Meta: group[fileName]})
		}
	}
	for _, childName := range node.SubdirectoryNames() {
		view.Children = append(view.Children, buildNodeView(childName, node.Subdirectories[childName], depth+1))
	}
	for _, hash := range sortedHashes(node.Duplicates) {
		view.Duplicates = append(view.Duplicates, duplicateView{
			ContentHash: hash,
			Names:       strings.Join(node.Duplicates[hash], ", "),
		})
	}
	return view
}

func sortedHashes(duplicates map[string][]string) []string {
	if len(duplicates) == 0 {
		return nil
	}
	hashes := make([]string, 0, len(duplicates))
	for hash := range duplicates {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)
	return hashes
}

var htmlTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"short": func(s string) string {
		if len(s) > 12 {
			return s[:12]
		}
		return s
	},
}).Parse(htmlTemplate))

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>dirsnap: {{.RootPath}}</title>
<style>
body { font-family: ui-monospace, Menlo, Consolas, monospace; margin: 2rem; color: #222; }
h1 { font-size: 1.3rem; }
.taken { color: #777; font-size: 0.85rem; }
details { margin-left: 1.2rem; }
summary { cursor: pointer; padding: 0.1rem 0; }
summary .meta { color: #777; font-size: 0.85rem; }
ul.files { list-style: none; margin: 0.1rem 0 0.1rem 2.4rem; padding: 0; }
ul.files li { padding: 0.05rem 0; }
.hash { color: #999; }
.dups { color: #a33; margin-left: 2.4rem; font-size: 0.9rem; }
section.summary { background: #f6f6f6; border: 1px solid #ddd; padding: 0.5rem 1rem; margin-bottom: 1.5rem; }
section.summary h2 { font-size: 1.05rem; }
</style>
</head>
<body>
<h1>{{.RootPath}}</h1>
<p class="taken">snapshot taken {{.TakenAt}}</p>
{{with .Summary}}
<section class="summary">
<h2>Summary Statistics</h2>
<ul>
<li>Total Files: {{.TotalFiles}}</li>
<li>Total Directories: {{.TotalDirectories}}</li>
<li>Disk Usage by Extension:<ul>
{{range $ext, $size := .DiskUsageByExtension}}<li>{{$ext}}: {{$size}} bytes</li>
{{end}}</ul></li>
<li>Most Used Extensions:<ul>
{{range .MostUsedExtensions}}<li>{{.Extension}}: {{.SizeBytes}} bytes</li>
{{end}}</ul></li>
<li>Least Used Extensions:<ul>
{{range .LeastUsedExtensions}}<li>{{.Extension}}: {{.SizeBytes}} bytes</li>
{{end}}</ul></li>
<li>Largest Files:<ul>
{{range .LargestFiles}}<li>{{.Path}}: {{.SizeBytes}} bytes</li>
{{end}}</ul></li>
<li>Largest Folders:<ul>
{{range .LargestFolders}}<li>{{.Path}}: {{.SizeBytes}} bytes</li>
{{end}}</ul></li>
<li>Empty Directories: {{len .EmptyDirectories}}</li>
<li>Zero-Byte Files: {{len .ZeroByteFiles}}</li>
<li>Duplicate Groups: {{len .DuplicateGroups}}</li>
<li>Mean File Size: {{printf "%.1f" .SizeStats.MeanBytes}} bytes</li>
<li>Median File Size: {{printf "%.1f" .SizeStats.MedianBytes}} bytes</li>
</ul>
</section>
{{end}}
<section class="tree">
{{template "node" .Root}}
</section>
</body>
</html>
{{define "node"}}
<details{{if lt .Depth 1}} open{{end}}>
<summary>{{.Name}}/ <span class="meta">{{.FileCount}} files, {{.TotalSizeBytes}} bytes</span></summary>
{{if .Files}}<ul class="files">
{{range .Files}}<li>{{.Name}} ({{.Meta.SizeBytes}} bytes, {{.Meta.ContentType}}, <span class="hash">{{short .Meta.ContentHash}}</span>)</li>
{{end}}</ul>{{end}}
{{range .Duplicates}}<div class="dups">duplicates {{short .ContentHash}}: {{.Names}}</div>
{{end}}
{{range .Children}}{{template "node" .}}{{end}}
</details>
{{end}}
`
