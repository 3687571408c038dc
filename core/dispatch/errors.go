package dispatch

import "errors"

// ErrNoConvergence is returned when lambda iteration exhausts its iteration
// budget. It points at bad cost coefficients or lambda bounds that do not
// bracket the marginal price.
var ErrNoConvergence = errors.New("lambda iteration did not converge")
