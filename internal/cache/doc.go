// Package cache provides a small generic key/value cache whose entries expire
// after a fixed TTL and whose size is bounded by evicting the oldest entry.
package cache
