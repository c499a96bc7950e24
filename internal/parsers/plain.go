package parsers

import (
	"bufio"
	"bytes"
	"strings"
)

// PlainListParser parses newline-delimited package lists such as tampered_package_names.txt
type PlainListParser struct{}

// CanParse accepts any file
func (p *PlainListParser) CanParse(filename string) bool {
	return true
}

// Parse returns trimmed lines, skipping blanks and # comments
func (p *PlainListParser) Parse(filepath string, content []byte) ([]string, error) {
	var pkgs []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pkgs = append(pkgs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pkgs, nil
}
