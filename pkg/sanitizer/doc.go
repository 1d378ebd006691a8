// Package sanitizer normalises user-supplied text before it is compared with
// catalog values or rendered into outbound email.
//
// Clean applies Unicode NFC normalisation (golang.org/x/text/unicode/norm),
// strips control characters and trims surrounding whitespace, so that
// "Halcón" typed with a combining accent matches the catalog spelling.
// Apply and Compose chain transforms into reusable pipelines.
package sanitizer
