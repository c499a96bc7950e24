package models

import "strings"

// Ecosystem represents a package ecosystem
type Ecosystem string

const (
	EcosystemPyPI Ecosystem = "PyPI"
	EcosystemNpm  Ecosystem = "npm"
	EcosystemGo   Ecosystem = "Go"
)

// SplitIdentifier separates a package identifier into name and version.
// Install commands always receive the identifier verbatim; this is for lookups only.
func SplitIdentifier(eco Ecosystem, id string) (name string, version string) {
	id = strings.TrimSpace(id)

	switch eco {
	case EcosystemPyPI:
		idx := strings.IndexAny(id, "=<>!~")
		if idx < 0 {
			return id, ""
		}
		name = strings.TrimSpace(id[:idx])
		spec := id[idx:]
		// Only exact pins carry a usable version
		if strings.HasPrefix(spec, "==") {
			version = strings.TrimSpace(strings.TrimPrefix(spec, "=="))
		}
		return name, version
	case EcosystemNpm:
		// "@scope/name@1.0.0": the leading @ belongs to the scope
		if idx := strings.LastIndex(id, "@"); idx > 0 {
			return id[:idx], id[idx+1:]
		}
		return id, ""
	default:
		name, version, _ = strings.Cut(id, "@")
		return name, version
	}
}
