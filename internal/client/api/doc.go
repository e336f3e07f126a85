// Package api implements the REST transport used by the MarketPulse client.
//
// All calls go through the Client interface so services can be tested with
// fakes. The HTTP implementation attaches the bearer token from a
// TokenSource on every request and maps transport-level failures (no
// response at all) to the ErrUnavailable sentinel, keeping "backend
// unavailable" distinguishable from application-level error responses.
package api
