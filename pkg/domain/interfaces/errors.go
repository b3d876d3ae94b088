package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is the common cause of every repository not-found error
var ErrNotFound = goerr.New("resource not found")
