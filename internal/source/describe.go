// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"errors"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/document-engine/pkg/types"
)

// readContext is swapped in tests to exercise error mapping.
var readContext = func(path string) (*model.Context, error) {
	return api.ReadContextFile(path)
}

// Info summarizes one PDF document for presentation.
type Info struct {
	Path      string `json:"path" yaml:"path"`
	Pages     int    `json:"pages" yaml:"pages"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
	Version   string `json:"version" yaml:"version"`
}

// Describe reads the document's structural summary without rendering a
// single page.
func Describe(path string) (Info, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Info{}, types.NewValidationError(path, "file not found")
	}
	if err != nil {
		return Info{}, types.NewIOError(path, err)
	}

	ctx, err := readContext(path)
	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return Info{}, types.NewValidationError(path, "password protected")
	}
	if err != nil {
		return Info{}, types.NewDecodeError(path, "corrupt or unreadable document", err)
	}

	info := Info{Path: path, Pages: ctx.PageCount, SizeBytes: fi.Size()}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}
	return info, nil
}
