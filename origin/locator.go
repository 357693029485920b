package origin

import (
	"path"
	"path/filepath"
	"strings"
)

// IndexFile is served for URIs that end in a slash.
const IndexFile = "home.html"

// Resource is the file that serves a request URI.
type Resource struct {
	// Path is the location of the file on disk.
	Path string

	// Dynamic is true if the file is a CGI program rather than static
	// content.
	Dynamic bool

	// Args is the query string passed to a CGI program.
	Args string
}

// Locator maps request URIs to files beneath a root directory.
type Locator struct {
	Root string
}

// Locate returns the resource for the given request URI.
//
// Any URI containing "cgi-bin" is dynamic, and the text after the first "?"
// becomes its arguments. The URI is cleaned before it is joined to the root,
// so it can never refer to a file outside the root.
func (locator Locator) Locate(uri string) Resource {
	var res Resource

	if strings.Contains(uri, "cgi-bin") {
		res.Dynamic = true
		if i := strings.IndexByte(uri, '?'); i >= 0 {
			res.Args = uri[i+1:]
			uri = uri[:i]
		}
	} else if strings.HasSuffix(uri, "/") {
		uri += IndexFile
	}

	res.Path = filepath.Join(
		locator.root(),
		filepath.FromSlash(path.Clean("/"+uri)),
	)

	return res
}

func (locator Locator) root() string {
	if locator.Root == "" {
		return "."
	}
	return locator.Root
}

// ContentType returns the MIME type of the file at p, derived from its name.
func ContentType(p string) string {
	for _, t := range contentTypes {
		if strings.Contains(p, t.Extension) {
			return t.Type
		}
	}

	return "text/plain"
}

var contentTypes = []struct {
	Extension string
	Type      string
}{
	{".html", "text/html"},
	{".gif", "image/gif"},
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".mp4", "video/mp4"},
	{".mpeg", "video/mpeg"},
}
