package ingest

import (
	"fmt"
	"strings"

	"github.com/gffarchive/gffarchive/internal/model"
)

// registeredTransforms maps a config-file transform name to the
// TransformFunc it runs. YAML cannot carry a function value, so a job's
// transform is selected by name rather than supplied inline.
var registeredTransforms = map[string]TransformFunc{
	"strip_version_suffix": stripVersionSuffix,
}

// RegisterTransform adds or replaces a named transform, for embedding
// callers that construct a Config programmatically rather than through a
// job file.
func RegisterTransform(name string, fn TransformFunc) {
	registeredTransforms[name] = fn
}

// LookupTransform resolves a job's configured transform name. An empty
// name resolves to no transform.
func LookupTransform(name string) (TransformFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := registeredTransforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q", name)
	}
	return fn, nil
}

// stripVersionSuffix drops a trailing ".N" version suffix (e.g.
// "ENST00000456328.2" -> "ENST00000456328") from id-shaped attribute
// values, the cleanup needed to cross-reference Ensembl-style versioned
// ids against unversioned ones.
func stripVersionSuffix(attrs *model.Attributes) *model.Attributes {
	for _, key := range []string{"ID", "Parent", "gene_id", "transcript_id"} {
		values := attrs.Get(key)
		if values == nil {
			continue
		}
		stripped := make([]string, len(values))
		for i, v := range values {
			stripped[i] = stripSuffix(v)
		}
		attrs.Set(key, stripped)
	}
	return attrs
}

func stripSuffix(id string) string {
	dot := strings.LastIndexByte(id, '.')
	if dot < 0 || dot == len(id)-1 {
		return id
	}
	suffix := id[dot+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return id
		}
	}
	return id[:dot]
}
