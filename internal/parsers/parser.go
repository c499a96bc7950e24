package parsers

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrInputNotFound is returned by Load when the package list does not exist
var ErrInputNotFound = errors.New("file not found")

// Parser is the interface for package list parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts package identifiers, in file order, from the file content
	Parse(filepath string, content []byte) ([]string, error)
}

// GetAllParsers returns all available parsers, most specific first
func GetAllParsers() []Parser {
	return []Parser{
		&PythonRequirementsParser{},
		&PythonPyProjectParser{},
		&NodePackageJSONParser{},
		&GoModParser{},
		&PlainListParser{},
	}
}

// ForFile returns the first parser that accepts the file's base name
func ForFile(path string) Parser {
	name := filepath.Base(path)
	for _, p := range GetAllParsers() {
		if p.CanParse(name) {
			return p
		}
	}
	return &PlainListParser{}
}

// Load reads the package list at path with the matching parser
func Load(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrInputNotFound, path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	pkgs, err := ForFile(path).Parse(path, content)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return pkgs, nil
}
