package vscode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/go-lsp"
	"go.lsp.dev/uri"
)

// URI identifies a resource. Only file, http and https schemes are accepted.
type URI = uri.URI

// File returns a file:// URI for an absolute or relative filesystem path.
func File(path string) URI {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return uri.File(abs)
}

// ParseURI validates s and returns it as a URI.
func ParseURI(s string) (URI, error) {
	u, err := uri.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", s, err)
	}
	return u, nil
}

// URIPath returns the filesystem path of a file URI, or "" for other schemes.
func URIPath(u URI) string {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return ""
	}
	return u.Filename()
}

// ToDocumentURI converts u for use in LSP messages.
func ToDocumentURI(u URI) lsp.DocumentURI {
	return lsp.DocumentURI(u)
}

// FromDocumentURI validates an LSP document URI and converts it back.
func FromDocumentURI(d lsp.DocumentURI) (URI, error) {
	return ParseURI(string(d))
}
