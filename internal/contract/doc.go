// Package contract defines the data exchanged with the contract analysis
// service: the locally selected file, the server-assigned session, and the
// analysis payload with its clauses, risk flags and entities.
//
// The analysis payload is loosely structured. Decoding is lenient: unknown
// risk levels become [RiskUnknown], scores are clamped to 0..100, entity
// mentions may be plain strings or objects, and absent optional fields decode
// to their zero values so renderers can fall back instead of failing.
package contract
