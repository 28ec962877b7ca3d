// Package parser builds the declaration tree of a C# file.
//
// Only the declaration level is parsed: namespaces, types, members, using
// directives and the global nodes that separate them. Method bodies,
// initializers and attribute arguments are skipped by balanced bracket
// scanning. Broken members are kept as Incomplete nodes so the rest of the
// file is still usable.
package parser
