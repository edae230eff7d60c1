// Package oracle defines the pluggable knowledge sources consulted
// around the search engine: hint extraction before the search, branch
// selection at the taxonomy root, and optional verification of the
// ranked candidates afterwards.
//
// LLM-backed implementations live alongside deterministic ones. The
// engine never requires an oracle; every oracle is optional and every
// oracle failure degrades to embedding-only behavior.
package oracle
