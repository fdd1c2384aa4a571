// Package ci runs one staging pipeline: validate the request, clean the
// workspace, merge `lib` and `src`, stage the project configuration, prune
// exclusions, then initialize and build. The workspace is released on every
// exit path unless the request keeps it.
package ci
