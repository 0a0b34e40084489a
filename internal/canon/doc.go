// Package canon produces RFC 8785 canonical JSON and domain-separated
// content hashes.
//
// The journal derives entry ids from canonical JSON so the same outcome
// always hashes to the same id, regardless of map iteration order or
// Unicode normalization form of client names.
package canon
