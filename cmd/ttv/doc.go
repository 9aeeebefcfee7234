// Package main hosts the ttv CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the
// internal packages: credential maintenance, token refresh, follow set
// mutation, live status listing, and playback launch. It centralizes
// settings resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
package main
