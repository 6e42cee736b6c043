package entity

import (
	"path/filepath"
	"strings"
)

// UploadedFile is one file as received from the client. It is not modified
// after creation.
type UploadedFile struct {
	Name      string
	Size      int64
	Content   []byte
	Extension string
}

// NewUploadedFile captures name and content; the declared extension is taken
// from the name as given.
func NewUploadedFile(name string, content []byte) UploadedFile {
	return UploadedFile{
		Name:      name,
		Size:      int64(len(content)),
		Content:   content,
		Extension: filepath.Ext(name),
	}
}

// Format is a recognized input or output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// FormatFromExtension maps a file extension (with or without the leading
// dot, any case) to a recognized input format.
func FormatFromExtension(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	switch Format(ext) {
	case FormatCSV, FormatXLSX, FormatPDF:
		return Format(ext), true
	default:
		return "", false
	}
}

// Extension returns the dotted lowercase extension of the format.
func (f Format) Extension() string {
	return "." + string(f)
}
