// Package schema holds the request schema and the two operations built on
// it: validating a raw request file before it is parsed, and writing a blank
// request template users can fill in.
package schema
