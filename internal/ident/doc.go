// Package ident computes content-addressed identities for count tables and
// models.
//
// Identities are SHA-256 digests over canonical JSON (RFC 8785 key ordering,
// NFC-normalised strings, no HTML escaping) with a domain prefix per record
// kind:
//
//	SHA256(domain + 0x00 + canonical JSON)
//
// Floats and null are rejected by the canonical encoder, so a model is
// identified through its count table and estimator parameters rather than
// through its floating-point code lengths.
package ident
