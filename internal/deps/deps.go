package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary ttv relies on.
type Requirement struct {
	Name   string
	Binary string
	Hint   string
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{Requirement: req}
		binary := strings.TrimSpace(req.Binary)
		if binary == "" {
			status.Detail = "binary not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(binary); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", binary)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Ensure errors on the first missing requirement, carrying its install
// hint when one is set.
func Ensure(requirements []Requirement) error {
	for _, status := range Check(requirements) {
		if status.Available {
			continue
		}
		hint := strings.TrimSpace(status.Hint)
		if hint == "" {
			hint = "Please install it."
		}
		return fmt.Errorf("`%s` not found on PATH. %s", status.Binary, hint)
	}
	return nil
}
