package models

import (
	"strings"
	"time"
)

// Stage identifies the step at which an install attempt concluded
type Stage string

const (
	StageInit    Stage = "init"
	StageInstall Stage = "install"
	StageVerify  Stage = "verify"
)

// Attempt is the outcome of processing one package identifier
type Attempt struct {
	Package  string
	Success  bool
	Stage    Stage
	Stderr   string // stderr of the concluding command, stdout if stderr was empty
	Duration time.Duration
}

// Summary holds the ordered pass/fail lists of a single run
type Summary struct {
	Succeeded []string
	Failed    []string

	// Advisories maps a succeeded package to the advisories found for it
	Advisories map[string][]Advisory
}

// Record appends the attempt's package to the matching list
func (s *Summary) Record(a Attempt) {
	if a.Success {
		s.Succeeded = append(s.Succeeded, a.Package)
		return
	}
	s.Failed = append(s.Failed, a.Package)
}

// Total returns the number of recorded attempts
func (s Summary) Total() int {
	return len(s.Succeeded) + len(s.Failed)
}

// Advisory represents a published advisory affecting a package
type Advisory struct {
	ID      string
	Summary string
}

// Malicious reports whether the advisory is a malicious-package report
func (a Advisory) Malicious() bool {
	return strings.HasPrefix(a.ID, "MAL-")
}
