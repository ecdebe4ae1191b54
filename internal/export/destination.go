package export

import (
	"fmt"
	"sort"
	"strings"
)

// Destination is where an export delivers a job's results.
type Destination string

const (
	DestinationCSV   Destination = "csv"
	DestinationExcel Destination = "excel"
	DestinationJSON  Destination = "json"

	DestinationCRM        Destination = "crm-push"
	DestinationSequencer  Destination = "sequencer-push"
	DestinationAutomation Destination = "automation-push"
)

// Kind groups destinations by how they are delivered.
type Kind string

const (
	KindFile        Kind = "file"
	KindIntegration Kind = "integration"
)

// ParseDestination normalises user input into a Destination. It does not
// check that a handler is registered for it.
func ParseDestination(value string) (Destination, error) {
	d := Destination(strings.ToLower(strings.TrimSpace(value)))
	if d == "" {
		return "", fmt.Errorf("%w: destination is required", ErrValidation)
	}
	return d, nil
}

// sortedDestinations returns the keys of m in a stable order for messages.
func sortedDestinations(m map[Destination]Handler) []string {
	out := make([]string, 0, len(m))
	for d := range m {
		out = append(out, string(d))
	}
	sort.Strings(out)
	return out
}
