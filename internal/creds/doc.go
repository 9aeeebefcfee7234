// Package creds persists the Twitch credential record: client id and
// secret alongside the current app access token and its expiry.
//
// The record lives in a single JSON file that is rewritten atomically on
// every mutation. Loading a missing file yields the zero record so first
// runs need no setup step beyond `ttv config`.
package creds
