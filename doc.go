// Package campus holds the shared pieces of the campus records service:
// the error taxonomy and its JSON envelope, the caller Identity and its
// request context plumbing, and credential verification.
//
// Error taxonomy:
//   - Every failure is a go-errors value tagged with a Kind text code.
//     KindOf recovers the kind, Kind.Status the HTTP status.
//   - ErrorRenderer.Handle is installed as the fiber error handler and
//     renders {status_code, status, error, error_detail}. Success bodies
//     are the bare JSON value.
//
// Identity:
//   - The authorization gate stores the decoded Identity in fiber locals
//     and in the request user context. Handlers read it back with
//     IdentityFromLocals or IdentityFromContext.
//
// Credentials:
//   - Authenticator.Login verifies a bcrypt password hash through an
//     AccountFinder and issues a bearer token through a TokenIssuer.
package campus
