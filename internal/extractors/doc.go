// Package extractors provides implementations of the Extractor interface
// for the upload formats the pipeline accepts. Each extractor knows how to
// pull plain text out of a specific set of file extensions.
//
// Extractors are registered with the Registry at startup.
package extractors
