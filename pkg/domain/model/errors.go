package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrCaseNotFound   = goerr.New("case not found")
	ErrPersonNotFound = goerr.New("person not found")
)
