package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Clients and stores return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: the backend has no such resource
//   - ErrUnavailable: the backend could not be reached or answered 5xx
//   - ErrRejected: the backend refused the request (4xx other than 404)
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrRejected    = errors.New("rejected")
)
