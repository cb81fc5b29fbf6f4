package hierarchy

import (
	"mime"
	"strings"
)

// DefaultContentType is the generic binary type used for unknown extensions.
const DefaultContentType = "application/octet-stream"

// contentTypes resolves the common extensions deterministically regardless
// of the platform MIME registry, which is only consulted for extensions not
// listed here.
var contentTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".xml":  "text/xml",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".7z":   "application/x-7z-compressed",
	".rar":  "application/vnd.rar",
}

// ContentTypeByName resolves a best-effort MIME type from a file name's
// extension. Extensionless names and unknown extensions fall back to
// DefaultContentType.
func ContentTypeByName(name string) string {
	ext := ExtensionKey(name)
	if ext == "" {
		return DefaultContentType
	}
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		// registry entries may carry parameters like "; charset=utf-8"
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		return ct
	}
	return DefaultContentType
}
