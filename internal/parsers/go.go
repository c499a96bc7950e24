package parsers

import (
	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

// GoModParser parses go.mod files
type GoModParser struct {
	IncludeIndirect bool // Whether to include indirect dependencies
}

// CanParse returns true for go.mod files
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse returns the requirements as module@version, in file order
func (p *GoModParser) Parse(filepath string, content []byte) ([]string, error) {
	mod, err := modfile.Parse(filepath, content, nil)
	if err != nil {
		return nil, errors.Wrap(err, "parsing go.mod")
	}

	var pkgs []string
	for _, req := range mod.Require {
		if req.Indirect && !p.IncludeIndirect {
			continue
		}
		pkgs = append(pkgs, req.Mod.Path+"@"+req.Mod.Version)
	}

	return pkgs, nil
}
