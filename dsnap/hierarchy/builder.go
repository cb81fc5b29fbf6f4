package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// Builder walks a directory tree and produces an immutable DirectoryTree
// honoring the configured depth budget, extension allow-list and ignore
// rules. A Builder is reusable; every Build call returns a fresh tree and
// shares no state with previous runs.
type Builder struct {
	opts       Options
	extensions map[string]struct{}
	extractor  *Extractor
	logger     *slog.Logger
}

// fileEntry is a directory entry classified as an includable regular file.
type fileEntry struct {
	name string
	path string
	ext  string
	info os.FileInfo
}

// NewBuilder creates a builder from the given options.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HashWorkers < 1 {
		opts.HashWorkers = 1
	}
	return &Builder{
		opts:       opts,
		extensions: NormalizeExtensions(opts.Extensions),
		extractor:  NewExtractor(opts.ChunkSize, logger),
		logger:     logger,
	}
}

// Build snapshots the directory at rootPath. A missing or non-directory root
// returns ErrInvalidRoot and no tree; any other entry-level failure is
// logged, counted in the tree metrics and skipped, never aborting the walk.
// Cancelling ctx stops the walk with ctx.Err().
func (b *Builder) Build(ctx context.Context, rootPath string) (*trees.DirectoryTree, error) {
	start := time.Now()

	info, err := os.Stat(rootPath)
	if err != nil {
		b.logger.Warn("root not usable", "path", rootPath, "error", err)
		return nil, fmt.Errorf("%q: %w", rootPath, ErrInvalidRoot)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", rootPath, ErrInvalidRoot)
	}

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", rootPath, ErrInvalidRoot)
	}

	walk := &treeWalk{
		builder: b,
		ignore:  b.loadIgnore(absRoot),
	}

	tree := trees.NewDirectoryTree(absRoot, trees.WithLogger(b.logger))
	walk.metrics.TotalDirs = 1 // the root node

	if err := walk.buildDir(ctx, tree.Root, absRoot, "", b.opts.MaxDepth, 0); err != nil {
		return nil, err
	}

	walk.metrics.ProcessingTime = time.Since(start)
	tree.Metrics = walk.metrics

	b.logger.Info("hierarchy built",
		"root", absRoot,
		"dirs", walk.metrics.TotalDirs,
		"files", walk.metrics.TotalFiles,
		"skipped_files", walk.metrics.FilesSkipped,
		"skipped_dirs", walk.metrics.DirsSkipped,
		"duration", walk.metrics.ProcessingTime)

	return tree, nil
}

// loadIgnore compiles the optional ignore file at the root. A missing file
// is normal; a malformed one is reported and disables ignore matching.
func (b *Builder) loadIgnore(absRoot string) *ignore.GitIgnore {
	if b.opts.IgnoreFile == "" {
		return nil
	}
	ignorePath := filepath.Join(absRoot, b.opts.IgnoreFile)
	if _, err := os.Stat(ignorePath); err != nil {
		return nil
	}
	matcher, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		b.logger.Warn("ignore file unreadable, continuing without it",
			"path", ignorePath, "error", err)
		return nil
	}
	return matcher
}

// treeWalk carries the per-build state so concurrent Build calls on one
// Builder stay independent.
type treeWalk struct {
	builder *Builder
	ignore  *ignore.GitIgnore
	metrics trees.TreeMetrics
}

// buildDir fills node with the contents of dirPath. relPath is the
// root-relative path used for ignore matching ("" for the root), depth the
// remaining budget and level the current distance below the root.
func (w *treeWalk) buildDir(ctx context.Context, node *trees.DirectoryNode, dirPath, relPath string, depth, level int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if level > w.metrics.MaxDepth {
		w.metrics.MaxDepth = level
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		// the node stays recorded, just empty
		w.metrics.DirsSkipped++
		w.builder.logger.Warn("skipping unlistable directory", "path", dirPath, "error", err)
		return nil
	}

	var files []fileEntry
	var subdirs []string
	for _, entry := range entries { // os.ReadDir is sorted by name
		name := entry.Name()
		rel := name
		if relPath != "" {
			rel = relPath + "/" + name
		}

		if entry.IsDir() {
			if w.ignored(rel, true) {
				w.builder.logger.Debug("directory ignored", "path", rel)
				continue
			}
			subdirs = append(subdirs, name)
			continue
		}

		if w.ignored(rel, false) {
			w.metrics.FilesExcluded++
			continue
		}

		fe, ok := w.classifyFile(filepath.Join(dirPath, name), name, entry)
		if !ok {
			continue
		}
		if w.builder.extensions != nil {
			if _, allowed := w.builder.extensions[fe.ext]; !allowed {
				w.metrics.FilesExcluded++
				continue
			}
		}
		files = append(files, fe)
	}

	w.processFiles(node, files)

	if depth == 0 {
		return nil
	}
	childDepth := depth
	if depth > 0 {
		childDepth = depth - 1
	}

	for _, name := range subdirs {
		child := trees.NewDirectoryNode()
		if err := w.buildDir(ctx, child, filepath.Join(dirPath, name), joinRel(relPath, name), childDepth, level+1); err != nil {
			return err
		}
		node.AddSubdirectory(name, child)
		node.TotalSizeBytes += child.TotalSizeBytes
		w.metrics.TotalDirs++
	}

	return nil
}

// classifyFile decides how a non-directory entry participates: regular files
// are included, symlinks to regular files are included with the target's
// metadata, and every other entry type (symlinks to directories, devices,
// sockets, pipes) is skipped. Symlinked directories are never followed, so
// link cycles cannot occur.
func (w *treeWalk) classifyFile(entryPath, name string, entry os.DirEntry) (fileEntry, bool) {
	mode := entry.Type()
	switch {
	case mode.IsRegular():
		info, err := entry.Info()
		if err != nil {
			w.metrics.FilesSkipped++
			w.builder.logger.Warn("skipping unstattable file", "path", entryPath, "error", err)
			return fileEntry{}, false
		}
		return fileEntry{name: name, path: entryPath, ext: ExtensionKey(name), info: info}, true

	case mode&os.ModeSymlink != 0:
		info, err := os.Stat(entryPath) // follows the link
		if err != nil {
			w.metrics.FilesSkipped++
			w.builder.logger.Warn("skipping broken symlink", "path", entryPath, "error", err)
			return fileEntry{}, false
		}
		if !info.Mode().IsRegular() {
			w.builder.logger.Debug("skipping symlink to non-regular target", "path", entryPath)
			return fileEntry{}, false
		}
		return fileEntry{name: name, path: entryPath, ext: ExtensionKey(name), info: info}, true

	default:
		w.builder.logger.Debug("skipping special entry", "path", entryPath, "mode", mode.String())
		return fileEntry{}, false
	}
}

// processFiles extracts metadata for the included files of one directory,
// fills the node's extension groups, counts and sizes, and records the
// same-directory duplicate groups. Extraction fans out over a worker pool
// when configured; results land in order-stable slots so aggregation is
// deterministic either way, and group ordering stays lexicographic because
// the entries arrive sorted.
func (w *treeWalk) processFiles(node *trees.DirectoryNode, files []fileEntry) {
	if len(files) == 0 {
		return
	}

	metas := make([]*trees.FileMetadata, len(files))
	errs := make([]error, len(files))

	if w.builder.opts.HashWorkers > 1 && len(files) > 1 {
		p := pool.New().WithMaxGoroutines(w.builder.opts.HashWorkers)
		for i, fe := range files {
			p.Go(func() {
				metas[i], errs[i] = w.builder.extractor.Extract(fe.path, fe.info)
			})
		}
		p.Wait()
	} else {
		for i, fe := range files {
			metas[i], errs[i] = w.builder.extractor.Extract(fe.path, fe.info)
		}
	}

	hashToNames := make(map[string][]string)
	for i, fe := range files {
		if errs[i] != nil {
			w.metrics.FilesSkipped++
			w.builder.logger.Warn("skipping unreadable file", "path", fe.path, "error", errs[i])
			continue
		}
		meta := metas[i]
		node.AddFile(fe.ext, fe.name, meta)
		node.FileCount++
		node.TotalSizeBytes += meta.SizeBytes
		hashToNames[meta.ContentHash] = append(hashToNames[meta.ContentHash], fe.name)
		w.metrics.TotalFiles++
		w.metrics.BytesHashed += meta.SizeBytes
	}

	for hash, names := range hashToNames {
		if len(names) < 2 {
			continue
		}
		if node.Duplicates == nil {
			node.Duplicates = make(map[string][]string)
		}
		node.Duplicates[hash] = names
	}
}

// ignored reports whether the ignore rules exclude the root-relative path.
func (w *treeWalk) ignored(rel string, isDir bool) bool {
	if w.ignore == nil {
		return false
	}
	if isDir && w.ignore.MatchesPath(rel+"/") {
		return true
	}
	return w.ignore.MatchesPath(rel)
}

func joinRel(relPath, name string) string {
	if relPath == "" {
		return name
	}
	return relPath + "/" + name
}
