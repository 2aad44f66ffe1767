package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a genome could not be reconciled.
type Kind int

const (
	MalformedHeader Kind = iota + 1
	UnmatchedIdentifier
	TypeMismatch
	CounterMismatch
	MalformedTableField
	MissingUpstreamFile
	AmbiguousUpstreamFile
)

func (k Kind) String() string {
	switch k {
	case MalformedHeader:
		return "MalformedHeader"
	case UnmatchedIdentifier:
		return "UnmatchedIdentifier"
	case TypeMismatch:
		return "TypeMismatch"
	case CounterMismatch:
		return "CounterMismatch"
	case MalformedTableField:
		return "MalformedTableField"
	case MissingUpstreamFile:
		return "MissingUpstreamFile"
	case AmbiguousUpstreamFile:
		return "AmbiguousUpstreamFile"
	default:
		return "Unknown"
	}
}

// Unit names what a sequence file holds.
type Unit string

const (
	Protein Unit = "protein"
	Gene    Unit = "gene"
)

// extension of the raw upstream sequence file for this unit
func (u Unit) ext() string {
	if u == Protein {
		return "faa"
	}
	return "ffn"
}

// Error is a reconciliation failure. Its message is the one-line diagnostic
// written to the error log.
type Error struct {
	Kind   Kind
	Unit   Unit
	Header string // sequence header, '>' included
	Source string // sequence file, or the searched directory for upstream file errors
	Table  string // annotation table
	Line   string // raw table line
	Type   string // feature type found in the table
	Want   int
	Got    int

	// upstream file lookup
	Genome     string
	Pattern    string
	Candidates []string

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case MalformedHeader:
		return fmt.Sprintf("Unknown header format %s in %s. Error: %v", e.Header, e.Source, e.Err)
	case UnmatchedIdentifier:
		return fmt.Sprintf("Missing info for %s %s in %s. If it is actually present in the lst file, "+
			"check that %ss are ordered by increasing number in both lst and %s files.",
			e.Unit, e.Header, e.Table, e.Unit, e.Unit.ext())
	case TypeMismatch:
		return fmt.Sprintf("%s should be a CRISPR but is not (type %s) in %s", e.Header, e.Type, e.Table)
	case CounterMismatch:
		return fmt.Sprintf("CRISPR number mismatch for %s in %s: expected CRISPR%d, got CRISPR%d",
			e.Header, e.Table, e.Want, e.Got)
	case MalformedTableField:
		msg := fmt.Sprintf("Unknown gene format in %s: %s", e.Table, e.Line)
		if e.Err != nil {
			msg += ". Error: " + e.Err.Error()
		}
		return msg
	case MissingUpstreamFile:
		return fmt.Sprintf("no %s file found for genome %s in %s", e.Pattern, e.Genome, e.Source)
	case AmbiguousUpstreamFile:
		return fmt.Sprintf("%d %s files found for genome %s in %s: %s",
			len(e.Candidates), e.Pattern, e.Genome, e.Source, strings.Join(e.Candidates, ", "))
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a reconciliation error anywhere in err's chain,
// or 0 for any other error.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return 0
}

var errNoSeparator = errors.New("missing '_' separator")
