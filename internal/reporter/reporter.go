package reporter

import "github.com/ethanolivertroy/tamper-check/internal/models"

// Reporter receives the progress of a batch run
type Reporter interface {
	// Start is called before a package is attempted
	Start(pkg string)
	// Attempt is called once the package's outcome is known
	Attempt(a models.Attempt)
	// Summary is called once after every package has been attempted
	Summary(s models.Summary)
	// Warn reports a problem that does not change any package's outcome
	Warn(msg string)
}
