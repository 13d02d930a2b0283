// Package extract decodes compressed archives entirely in memory: a DEFLATE
// implementation built from first principles (RFC 1951), the zlib and gzip
// containers that wrap it (RFC 1950, RFC 1952), a TAR walker that resolves
// GNU long-name/long-link and PAX header overlays (POSIX ustar plus its
// common extensions), and a registry that sniffs an input's format and
// dispatches it through the right combination of the two.
//
// Nothing here touches a filesystem. [Decode] returns decompressed bytes, a
// flat slice of [TarEntry] values, or a flat slice of [RarEntry] values,
// whichever the input turns out to be,
// bounded throughout by the size and entry-count limits on [Config].
package extract
