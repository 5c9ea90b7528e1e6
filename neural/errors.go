package neural

import "errors"

// Contract violations. Callers match them with errors.Is; the returned
// errors wrap these with the offending sizes.
var (
	ErrInvalidTopology        = errors.New("invalid topology")
	ErrInvalidTopologyWeights = errors.New("weights do not match topology")
	ErrInputSizeMismatch      = errors.New("input size mismatch")
	ErrWeightCountMismatch    = errors.New("weight count mismatch")
	ErrInvalidPopulationSize  = errors.New("invalid population size")
	ErrIndexOutOfRange        = errors.New("index out of range")
	ErrTopologyMismatch       = errors.New("topology mismatch within population")
	ErrInvalidConfig          = errors.New("invalid evolution config")
)
