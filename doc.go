// Package merkdb is an authenticated, copy-on-write key-value store
// built as a content-addressed binary Merkle-Patricia trie.
//
// Any number of tables coexist on one deduplicating, reference-counted
// node store: identical subtrees are stored exactly once no matter how
// many tables hold them. Every table produces a 32-byte cryptographic
// commitment to its contents, and a holder of that commitment can
// reconstruct the table incrementally from an untrusted peer, with
// malicious senders provably detected.
package merkdb
