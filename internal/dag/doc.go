// Package dag holds a small directed graph of component ids, built from the
// load plan's dependency indexes, and finds dependency cycles in it.
package dag
