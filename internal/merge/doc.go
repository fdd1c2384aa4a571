// Package merge populates the `src` and `lib` role directories of a build
// workspace from classified filesystem entries.
//
// Policy:
//
//   - `src` with exactly one matched directory: the destination becomes a
//     copy of that directory (promotion), so a single source tree lands at
//     `src/` instead of `src/<name>/`.
//   - Otherwise every matched directory is copied to `<dst>/<basename>`.
//   - Loose `lib` files are copied into one freshly named subdirectory of
//     `lib/`; loose `src` files are copied directly into `src/`.
//
// Collisions are last-write-wins: a later copy replaces an earlier file at
// the same destination and the overwrite is logged and reported in Result.
// A file landing on an existing directory (or the reverse) is a fatal
// filesystem error.
package merge
