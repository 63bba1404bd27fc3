package tiered

import "errors"

// ErrInvalidConfig indicates a configuration value outside its valid range.
// Returned errors wrap it together with the offending field.
var ErrInvalidConfig = errors.New("tiered: invalid config")
