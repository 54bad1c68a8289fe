package npm

import (
	"net/url"
	"strings"
)

// registryPath escapes a package name as a single path segment, so scoped
// names become "@scope%2Fname" as the registry expects.
func registryPath(name string) string {
	return url.PathEscape(name)
}

// downloadsPath escapes each segment of a package name separately, keeping
// the scope separator that the downloads API routes on.
func downloadsPath(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// validPackageName rejects blank names and dot segments, which would
// otherwise resolve to a different URL path.
func validPackageName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == "." || segment == ".." {
			return false
		}
	}
	return true
}
