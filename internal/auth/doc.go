// Package auth manages the Twitch app access token lifecycle.
//
// Manager guarantees a usable token to every API command: Token returns
// the stored value while it is still valid and performs a
// client-credentials exchange the moment the expiry has passed. Refresh
// forces the exchange unconditionally for `ttv auth`. Refreshes are
// serialized across processes with a file lock next to the credential
// record so concurrent invocations perform a single exchange.
package auth
