// Package ledger keeps personal accounts in two append-style CSV datasets:
// a transaction log and a networth snapshot log. Files can be encrypted at
// rest and are always worked on through a locked, scratch-backed Resource, so
// a failed operation never corrupts the persisted file.
//
// The push subpackage reconciles both datasets against a Firefly III server.
package ledger
