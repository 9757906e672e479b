package oura

import "fmt"

// AuthError means the access token is missing or was rejected upstream.
// Terminal: the user has to re-authenticate, retrying is pointless.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("oura auth: %s", e.Reason)
}

// UpstreamError is any non-success page response from the Oura API.
// It fails the whole collection for that endpoint, there is no
// partial-success mode and no automatic retry.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("oura api %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
