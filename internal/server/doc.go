// Package server exposes humor over HTTP/JSON.
//
// # Routes
//
//	GET  /health              liveness, plain "OK"
//	GET  /api/status          initialized/authenticated flags and site identity
//	POST /api/setup           claim an uninitialized site
//	POST /api/login           exchange credentials for a session token
//	POST /api/logout          revoke the presented token
//	POST /api/config          update site name and tagline (owner only)
//	GET  /api/posts           feed, newest first
//	GET  /api/posts/{id}      single post
//	POST /api/posts           publish a post (owner only)
//	GET  /api/inspiration     writing prompts, never an error
//
// Tokens travel in the Authorization header, bare or with a "Bearer " prefix.
// Errors are JSON objects of the form {"error": "..."}.
//
// Server owns the store and closes it on Shutdown. Run blocks until its
// context is canceled and then shuts down with a five second grace period.
package server
