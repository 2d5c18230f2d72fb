package domain

import "errors"

// ============================================================================
// Structure Errors
// ============================================================================

var (
	ErrEmptySMILES   = errors.New("SMILES string is required")
	ErrInvalidSMILES = errors.New("invalid SMILES")
)

// ============================================================================
// Simulation Errors
// ============================================================================

// Validation errors
var (
	ErrNoCompounds       = errors.New("at least one SMILES line is required")
	ErrTooManyCompounds  = errors.New("too many compounds in one request")
	ErrInvalidDose       = errors.New("dose must be between 0.1 and 3.0")
	ErrInvalidDuration   = errors.New("simulation time must be between 12 and 96 hours")
	ErrInvalidPoints     = errors.New("sample count must be between 2 and 5000")
	ErrInvalidKinetics   = errors.New("invalid kinetics profile")
	ErrInvalidAlertEntry = errors.New("invalid structural alert definition")
)

// ============================================================================
// Run Log Errors
// ============================================================================

var (
	ErrRunNotFound       = errors.New("simulation run not found")
	ErrInvalidRunID      = errors.New("invalid run id")
	ErrReportUnavailable = errors.New("report renderer is not available")
)
