package codec

import (
	"errors"
	"fmt"

	"github.com/cuemby/modcluster/pkg/schema"
)

// ErrUnknownNamespace is wrapped by parse errors for documents whose root
// namespace maps to no schema version.
var ErrUnknownNamespace = errors.New("unknown subsystem namespace")

const (
	Namespace1_0 = "urn:jboss:domain:modcluster:1.0"
	Namespace1_1 = "urn:jboss:domain:modcluster:1.1"
	Namespace1_2 = "urn:jboss:domain:modcluster:1.2"

	// CurrentNamespace is the only namespace production writers emit.
	CurrentNamespace = Namespace1_2
)

var namespaces = map[string]schema.Version{
	Namespace1_0: schema.Version1_0,
	Namespace1_1: schema.Version1_1,
	Namespace1_2: schema.Version1_2,
}

// VersionFor maps a namespace URI to its schema version.
func VersionFor(uri string) (schema.Version, error) {
	v, ok := namespaces[uri]
	if !ok {
		return schema.Version{}, fmt.Errorf("%w: %q", ErrUnknownNamespace, uri)
	}
	return v, nil
}

// NamespaceFor maps a schema version to its namespace URI.
func NamespaceFor(v schema.Version) (string, error) {
	for uri, nv := range namespaces {
		if nv == v {
			return uri, nil
		}
	}
	return "", fmt.Errorf("%w: %s", schema.ErrUnknownVersion, v)
}
