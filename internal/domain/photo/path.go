package photo

import (
	"fmt"
	"strings"
)

// PathResolver maps stored paths to object keys and builds keys for new uploads.
type PathResolver struct {
	prefix        string // canonical key prefix, e.g. "AI_photo"
	publicBaseURL string // base of legacy full-URL paths, e.g. "https://storage.example.com/bucket"
}

// NewPathResolver creates a resolver. Surrounding slashes are ignored.
func NewPathResolver(prefix, publicBaseURL string) *PathResolver {
	return &PathResolver{
		prefix:        strings.Trim(prefix, "/"),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// BuildKey returns the deterministic key "<prefix>/character_<id>_<seq>.jpg".
func (r *PathResolver) BuildKey(characterID int64, sequenceNumber int) string {
	name := fmt.Sprintf("character_%d_%d.jpg", characterID, sequenceNumber)
	if r.prefix == "" {
		return name
	}
	return r.prefix + "/" + name
}

// Resolve returns the object key for a stored path. Rules, in order:
// a path under the canonical prefix is already a key; a path under the public
// base URL has the base stripped; anything else is unresolved.
func (r *PathResolver) Resolve(storagePath string) (string, bool) {
	if storagePath == "" {
		return "", false
	}

	if r.prefix != "" && strings.HasPrefix(storagePath, r.prefix+"/") {
		return storagePath, true
	}

	if r.publicBaseURL != "" && strings.HasPrefix(storagePath, r.publicBaseURL+"/") {
		key := strings.TrimPrefix(storagePath, r.publicBaseURL+"/")
		if i := strings.IndexAny(key, "?#"); i >= 0 {
			key = key[:i]
		}
		if key != "" {
			return key, true
		}
	}

	return "", false
}
