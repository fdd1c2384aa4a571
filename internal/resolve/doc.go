// Package resolve expands user supplied glob patterns into absolute
// filesystem paths and classifies the results.
//
// Patterns follow doublestar syntax: `*` and `?` match within one path
// segment, `**` matches any number of segments, and `{a,b}` alternates.
// Relative patterns are resolved against the process working directory.
package resolve
