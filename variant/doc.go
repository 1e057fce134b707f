// Package variant enumerates the supported Mono runtime builds and holds,
// per build, everything needed to back the stable capability API: raw
// field descriptors (byte offset, bit shift, bit width, interpretation),
// export entries with ordered alias lists, and minimum structure sizes
// used to bound raw reads.
//
// # Builds
//
// Two builds are supported:
//
//	Legacy       mono            older Unity versions
//	BleedingEdge mono-2.0-bdwgc  newer Unity versions (MonoBleedingEdge)
//
// They differ in struct layout (the legacy build keeps class genericity in
// bits 18/19 of a flags word; the bleeding-edge build uses a small "class
// kind" discriminant), in bit positions (method genericity shifts by one
// bit between builds), and in export sets (several accessors exist only in
// the bleeding-edge build).
//
// # Detection
//
// Detect probes the loaded binary for discriminating exports in a fixed
// priority order and returns the first build whose full probe set matches.
// There is no fallback: a binary matching no known build is rejected,
// because wrong layout assumptions corrupt memory.
//
// # Registry
//
// Registry returns the capability table for a build: a read-only mapping
// from logical operation name to either a FieldDescriptor (raw read) or a
// SymbolEntry (resolved export call). Adding support for a new build means
// adding one registry entry, not touching call sites.
package variant
