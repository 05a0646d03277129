// Package cache provides a generic in-memory LRU cache.
package cache
