// Package portal is a read-only client for the university attendance portal.
//
// The portal wraps every response in {"data": ...}; Client unwraps it and
// maps failures onto the errors package: non-2xx responses become
// *errors.PortalError (401/403 match errors.ErrUnauthorized), timeouts become
// *errors.TimeoutError and bad payloads match errors.ErrMalformedResponse.
//
// The session token is an opaque value passed to NewClient. The client
// never stores it and never retries.
package portal
