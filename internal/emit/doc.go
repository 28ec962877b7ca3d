// Package emit renders reordered declarations back to text.
//
// Every child of a container owns the source region from the leading trivia
// of its first token to the trailing trivia of its last token. A region is
// split into three parts: Sep (whole blank lines at its start), Body and
// Term (trailing spaces and the line break). Sep and Term stay at their
// position when units are permuted; Body moves, so comments travel with
// their declaration while the blank-line layout of the container is kept.
//
// The pinned file header and everything up to the last preprocessor line in
// a unit's leading trivia never move. A unit carrying such a line starts a
// new segment; units are only permuted inside a segment.
package emit
