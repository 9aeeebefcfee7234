// Package twitch provides a thin typed client for the Helix API
// endpoints ttv uses: user lookup, live stream status, and archive VOD
// listings. Requests carry a bearer token fetched per call from a token
// source so an expired token refreshes lazily, and id/login parameters
// are batched in groups of 100 per the Helix limits.
package twitch
