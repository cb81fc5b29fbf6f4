package hierarchy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"
)

// Extractor produces FileMetadata records for regular files. Content hashes
// are computed by streaming the file in chunkSize reads, so memory use stays
// bounded no matter the file size.
type Extractor struct {
	chunkSize int
	logger    *slog.Logger
}

// NewExtractor creates an extractor with the given hash read size.
func NewExtractor(chunkSize int, logger *slog.Logger) *Extractor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{chunkSize: chunkSize, logger: logger}
}

// Extract builds the metadata record for the regular file at path. info must
// describe the file itself (the caller resolves symlinks first). Stat, open
// and read failures classify as ErrAccess so the builder can skip the entry
// and continue.
func (e *Extractor) Extract(path string, info os.FileInfo) (*trees.FileMetadata, error) {
	hash, err := e.hashFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}

	perm := info.Mode().Perm()
	meta := &trees.FileMetadata{
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime().Unix(),
		CreatedAt:  createdAt(info),
		Permissions: trees.Permissions{
			Mode:       fmt.Sprintf("%04o", perm),
			Readable:   accessAllowed(path, unix.R_OK),
			Writable:   accessAllowed(path, unix.W_OK),
			Executable: accessAllowed(path, unix.X_OK),
		},
		ContentType: ContentTypeByName(filepath.Base(path)),
		ContentHash: hash,
	}

	e.logger.Debug("extracted file metadata",
		"path", path,
		"size", meta.SizeBytes,
		"content_type", meta.ContentType)

	return meta, nil
}

// hashFile streams the file through sha256 in fixed-size reads.
func (e *Extractor) hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, e.chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// createdAt returns the inode change time where the platform exposes one,
// falling back to the modification time. True birth time is not generally
// available on Linux.
func createdAt(info os.FileInfo) int64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Ctim.Sec
	}
	return info.ModTime().Unix()
}

// accessAllowed mirrors access(2): the effective permissions of the running
// process, not just the mode bits.
func accessAllowed(path string, mode uint32) bool {
	return unix.Access(path, mode) == nil
}
