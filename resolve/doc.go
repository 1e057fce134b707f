// Package resolve locates named entry points in a loaded runtime binary,
// with alias fallback and per-entry caching.
//
// Resolution tries the canonical export name first, then each alias in
// declared order; the first successful binding wins. Both outcomes are
// cached write-once per entry, so repeated lookups cost one map read,
// including repeated failures. A failed resolution is not fatal: the
// capability it backs reports unsupported when invoked, and every other
// capability keeps working.
package resolve
