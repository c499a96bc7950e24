package parsers

import (
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// PythonRequirementsParser parses requirements.txt files
type PythonRequirementsParser struct{}

// CanParse returns true for requirements.txt files
func (p *PythonRequirementsParser) CanParse(filename string) bool {
	if !strings.HasSuffix(filename, ".txt") {
		return false
	}
	return strings.HasPrefix(filename, "requirements") ||
		strings.HasSuffix(filename, "-requirements.txt") ||
		strings.HasSuffix(filename, "_requirements.txt")
}

// Parse returns each requirement line as a pip install argument
func (p *PythonRequirementsParser) Parse(filepath string, content []byte) ([]string, error) {
	var pkgs []string
	lines := strings.Split(string(content), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Skip empty lines, comments, and options
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		// pip only treats # as a comment when preceded by whitespace
		if idx := strings.Index(line, " #"); idx > 0 {
			line = strings.TrimSpace(line[:idx])
		}

		pkgs = append(pkgs, line)
	}

	return pkgs, nil
}

// PythonPyProjectParser parses pyproject.toml files
type PythonPyProjectParser struct{}

// CanParse returns true for pyproject.toml files
func (p *PythonPyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// pyproject represents the structure of pyproject.toml
type pyproject struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// exactVersion matches plain release versions like 1.2.3
var exactVersion = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Parse extracts dependencies from pyproject.toml content
func (p *PythonPyProjectParser) Parse(filepath string, content []byte) ([]string, error) {
	var proj pyproject
	if err := toml.Unmarshal(content, &proj); err != nil {
		return nil, err
	}

	var pkgs []string

	// PEP 621 dependencies keep their file order
	for _, dep := range proj.Project.Dependencies {
		// Environment markers apply to the project, not to this probe
		if idx := strings.Index(dep, ";"); idx >= 0 {
			dep = dep[:idx]
		}
		dep = strings.TrimSpace(dep)
		if dep != "" {
			pkgs = append(pkgs, dep)
		}
	}

	// Poetry dependencies are a table, sort them so runs are repeatable
	names := make([]string, 0, len(proj.Tool.Poetry.Dependencies))
	for name := range proj.Tool.Poetry.Dependencies {
		if name == "python" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		version := extractPoetryVersion(proj.Tool.Poetry.Dependencies[name])
		if exactVersion.MatchString(version) {
			pkgs = append(pkgs, name+"=="+version)
			continue
		}
		pkgs = append(pkgs, name)
	}

	return pkgs, nil
}

func extractPoetryVersion(val interface{}) string {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		if ver, ok := v["version"].(string); ok {
			return strings.TrimSpace(ver)
		}
	}
	return ""
}
