// Package batch provides common utilities for batch tool operations.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Formatting batch results in a consistent structure
//   - Processing batch operations sequentially against the automation host
//   - Handling partial failures without aborting the batch
package batch
