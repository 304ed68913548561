package goja

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Library resolves a name given to "requires" to source code.
type Library func(ctx context.Context, p *Processor, name string) (string, error)

// DefaultLibraryProvider is used by a Processor without a
// LibraryProvider.
var DefaultLibraryProvider = MakeFileLibraryProvider(".")

// MakeFileLibraryProvider makes a Library for names that are URLs.
// A "file" URL is read relative to dir and can't leave it.  "http"
// and "https" URLs are fetched with http.DefaultClient.
func MakeFileLibraryProvider(dir string) Library {
	return func(ctx context.Context, p *Processor, name string) (string, error) {
		u, err := url.Parse(name)
		if err != nil {
			return "", err
		}
		switch u.Scheme {
		case "file":
			return readLibrary(dir, u.Host+u.Path)
		case "http", "https":
			return fetchLibrary(ctx, u.String())
		case "":
			return "", fmt.Errorf("library %q isn't a URL", name)
		default:
			return "", fmt.Errorf("library %q has unsupported scheme %q", name, u.Scheme)
		}
	}
}

func readLibrary(dir, name string) (string, error) {
	filename := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, filename)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("library %q is outside %s", name, dir)
	}
	bs, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func fetchLibrary(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("library %s: %s", u, resp.Status)
	}
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// MakeMapLibraryProvider makes a Library that looks names up in the
// given map.
func MakeMapLibraryProvider(srcs map[string]string) Library {
	return func(ctx context.Context, p *Processor, name string) (string, error) {
		src, have := srcs[name]
		if !have {
			return "", fmt.Errorf("undefined library %q", name)
		}
		return src, nil
	}
}
