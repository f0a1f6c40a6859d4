package domain

import "fmt"

// DiagnosticKind classifies a non-fatal problem found while building a result.
type DiagnosticKind string

const (
	// DiagParseError marks a content file that could not be parsed.
	DiagParseError DiagnosticKind = "ParseError"
	// DiagMissingContent marks a file a layer activates but the catalog does not know.
	DiagMissingContent DiagnosticKind = "MissingContent"
	// DiagMissingDependency marks a dependency that is not in the catalog.
	DiagMissingDependency DiagnosticKind = "MissingDependency"
	// DiagInactiveDependency marks a dependency that exists but is not active.
	DiagInactiveDependency DiagnosticKind = "InactiveDependency"
	// DiagOrderViolation marks a dependency that is active but loads after its dependent.
	DiagOrderViolation DiagnosticKind = "OrderViolation"
	// DiagCapabilityUnsupported marks a geometry source that cannot serve concurrent workers.
	DiagCapabilityUnsupported DiagnosticKind = "CapabilityUnsupported"
	// DiagGenerationFailure marks a single tile that failed to generate.
	DiagGenerationFailure DiagnosticKind = "GenerationFailure"
)

// Severity is the seriousness of a diagnostic.
type Severity int

const (
	// SeverityWarning does not affect correctness of the result.
	SeverityWarning Severity = iota
	// SeverityError means the result is usable but flagged.
	SeverityError
)

// Diagnostic is a problem attached to a result value instead of being returned as an error.
type Diagnostic struct {
	Kind       DiagnosticKind
	Severity   Severity
	File       ContentID
	Dependency ContentID
	Layer      string
	Path       string
	Cell       *CellCoord
	Message    string
}

// String renders the diagnostic on a single line.
func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagMissingDependency, DiagInactiveDependency, DiagOrderViolation:
		return fmt.Sprintf("%s(%s -> %s)", d.Kind, d.File, d.Dependency)
	case DiagParseError:
		return fmt.Sprintf("%s(%s): %s", d.Kind, d.Path, d.Message)
	case DiagMissingContent:
		return fmt.Sprintf("%s(%s) in layer %s", d.Kind, d.File, d.Layer)
	case DiagGenerationFailure:
		if d.Cell != nil {
			return fmt.Sprintf("%s(%s): %s", d.Kind, d.Cell, d.Message)
		}
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FilterDiagnostics returns the diagnostics of the given kind.
func FilterDiagnostics(diags []Diagnostic, kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
