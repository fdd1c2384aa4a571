// Package errors provides the classified error type used across cistage.
//
// Every failure that reaches the CLI carries a category (what kind of
// failure), a severity and optional structured context naming the offending
// pattern, board or path. The CLI adapter maps categories to process exit
// codes so that CI systems can tell invalid input apart from a failed build.
//
// Example usage:
//
//	err := errors.ValidationError("found invalid path").
//		WithContext("pattern", pattern).
//		Build()
package errors
