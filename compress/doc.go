// Package compress provides value codecs for the content cache.
//
// Large fulltext and delta values can dominate the cache budget; compressing
// them on insert trades CPU for effective capacity. LZ4 favors speed, zstd
// favors ratio, Identity disables compression. Codecs frame their output so
// incompressible values are stored raw without ambiguity.
package compress
