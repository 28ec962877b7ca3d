// Package testkit holds helpers shared by package tests: parsing a source
// string, splicing edits and checking tree and trivia invariants.
package testkit
