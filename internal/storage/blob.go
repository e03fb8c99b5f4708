package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"catalog_service/internal/domain"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored blobs are served.
const URLPrefix = "/static/"

// uniqueName keeps only the base of the client supplied name and prefixes it
// with a random uuid.
func uniqueName(suggested string) string {
	base := filepath.Base(strings.ReplaceAll(suggested, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == '/' || r == ':':
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		base = "upload"
	}
	return uuid.NewString() + "-" + base
}

// nameFromURL extracts the stored name from a url returned by Put, or accepts
// a bare name.
func nameFromURL(url string) (string, error) {
	name := strings.TrimPrefix(url, URLPrefix)
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("blob '%s' %w", url, domain.ErrNotFound)
	}
	return name, nil
}
