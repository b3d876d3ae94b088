package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
)

var (
	ErrNotFound = goerr.Wrap(interfaces.ErrNotFound, "not found")
)
