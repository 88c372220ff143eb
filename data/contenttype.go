package data

import (
	"path/filepath"
	"strings"
)

const ContentTypeDefault = "application/octet-stream"

var extensionContentTypes = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
}

// ContentTypeOf returns the MIME type stored for objects created at path.
func ContentTypeOf(path string) string {
	if contentType, exists := extensionContentTypes[strings.ToLower(filepath.Ext(path))]; exists {
		return contentType
	}
	return ContentTypeDefault
}
