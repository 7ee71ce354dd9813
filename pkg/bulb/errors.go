package bulb

import (
	"github.com/jmylchreest/bulbctl/internal/errors"
)

// Error kinds returned by this package. Match them with errors.Is.
var (
	ErrConfiguration = errors.ErrConfiguration
	ErrTransport     = errors.ErrTransport
	ErrTimeout       = errors.ErrTimeout
	ErrProtocol      = errors.ErrProtocol
	ErrDevice        = errors.ErrDevice
	ErrInvalidInput  = errors.ErrInvalidInput
)
