// Package token defines lexical token kinds and trivia for C# source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Leading trivia covers everything between the previous token's trailing
//     trivia and the token itself; trailing trivia covers same-line trivia up to
//     and including the first end-of-line (Roslyn convention).
//   - Preprocessor lines (#if, #region, ...) are TriviaDirective and inactive
//     conditional branches are TriviaDisabled; neither appears in the token stream.
//   - Contextual keywords (partial, record, global, get, set, add, remove, ...)
//     are identifiers. The parser recognises them by text.
package token
