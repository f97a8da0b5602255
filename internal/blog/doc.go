// Package blog publishes and lists the owner's markdown posts.
//
// Posts are append-only. Each feed item carries the original markdown and a
// pre-rendered HTML version so clients do not need a markdown library.
package blog
