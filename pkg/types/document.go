// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FileKind declares how a source file's pages are interpreted.
type FileKind string

const (
	// FileImage is a rasterized image contributing exactly one page.
	FileImage FileKind = "image"

	// FilePDF is a PDF document contributing one page per document page.
	FilePDF FileKind = "pdf"
)

// SourceFile is a caller-supplied input path with its declared kind.
// Immutable once validated; never persisted across operations.
type SourceFile struct {
	Path string
	Kind FileKind
}

// ImageSources declares every path an image input.
func ImageSources(paths []string) []SourceFile {
	files := make([]SourceFile, len(paths))
	for i, p := range paths {
		files[i] = SourceFile{Path: p, Kind: FileImage}
	}
	return files
}

// PDFSources declares every path a PDF input.
func PDFSources(paths []string) []SourceFile {
	files := make([]SourceFile, len(paths))
	for i, p := range paths {
		files[i] = SourceFile{Path: p, Kind: FilePDF}
	}
	return files
}
