// Package policy holds the ordering policy: which criteria order members,
// the kind and access tables, and how using directives are grouped and
// placed. Settings come from csorder.toml or .csorder.yaml found next to the
// analyzed sources; Resolve turns them into an immutable *Policy.
package policy
