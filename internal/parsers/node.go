package parsers

import (
	"encoding/json"
	"sort"
)

// NodePackageJSONParser parses package.json files (direct dependencies only)
type NodePackageJSONParser struct{}

// CanParse returns true for package.json files
func (p *NodePackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

// packageJSON represents the structure of package.json
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Parse returns dependencies then devDependencies as name@spec, each group sorted by name
func (p *NodePackageJSONParser) Parse(filepath string, content []byte) ([]string, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, err
	}

	var pkgs []string
	pkgs = append(pkgs, npmSpecs(pkg.Dependencies)...)
	pkgs = append(pkgs, npmSpecs(pkg.DevDependencies)...)

	return pkgs, nil
}

func npmSpecs(deps map[string]string) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]string, 0, len(names))
	for _, name := range names {
		if version := deps[name]; version != "" {
			specs = append(specs, name+"@"+version)
			continue
		}
		specs = append(specs, name)
	}
	return specs
}
