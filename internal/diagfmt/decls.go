package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"csorder/internal/ast"
	"csorder/internal/source"
)

// DeclNode is the JSON shape of a declaration and its children.
type DeclNode struct {
	Kind       string      `json:"kind"`
	Name       string      `json:"name,omitempty"`
	Modifiers  []string    `json:"modifiers,omitempty"`
	Span       source.Span `json:"span"`
	Incomplete bool        `json:"incomplete,omitempty"`
	Accessors  []string    `json:"accessors,omitempty"`
	Using      *UsingNode  `json:"using,omitempty"`
	FileScoped bool        `json:"file_scoped,omitempty"`
	Children   []DeclNode  `json:"children,omitempty"`
}

// UsingNode describes a using directive.
type UsingNode struct {
	Global bool   `json:"global,omitempty"`
	Static bool   `json:"static,omitempty"`
	Unsafe bool   `json:"unsafe,omitempty"`
	Alias  string `json:"alias,omitempty"`
	Name   string `json:"name"`
}

func modifierTexts(f *ast.File, d *ast.Decl) []string {
	if len(d.ModTokens) == 0 {
		return nil
	}
	out := make([]string, len(d.ModTokens))
	for i, t := range d.ModTokens {
		out[i] = f.Tokens[t].Text
	}
	return out
}

func accessorNames(d *ast.Decl) []string {
	if len(d.Accessors) == 0 {
		return nil
	}
	out := make([]string, len(d.Accessors))
	for i, a := range d.Accessors {
		out[i] = a.Name
	}
	return out
}

func buildDeclNode(f *ast.File, id ast.DeclID) DeclNode {
	d := f.Decl(id)
	node := DeclNode{
		Kind:       d.Kind.String(),
		Name:       d.Name,
		Modifiers:  modifierTexts(f, d),
		Span:       d.Span,
		Incomplete: d.Incomplete,
		Accessors:  accessorNames(d),
	}
	switch d.Kind {
	case ast.DeclUsing:
		if u, ok := f.Decls.Using(id); ok {
			node.Using = &UsingNode{Global: u.Global, Static: u.Static, Unsafe: u.Unsafe, Alias: u.Alias, Name: u.Name}
		}
	case ast.DeclNamespace:
		if ns, ok := f.Decls.Namespace(id); ok {
			node.Name = strings.Join(ns.Segments, ".")
			node.FileScoped = ns.FileScoped
		}
	}
	for _, c := range d.Children {
		node.Children = append(node.Children, buildDeclNode(f, c))
	}
	return node
}

// BuildDeclTree converts the declaration tree rooted at the compilation unit.
func BuildDeclTree(f *ast.File) DeclNode {
	return buildDeclNode(f, f.Root)
}

// FormatDeclsJSON выводит дерево объявлений в JSON
func FormatDeclsJSON(w io.Writer, f *ast.File) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDeclTree(f))
}

// FormatDeclsPretty печатает дерево объявлений с ветками ├─ └─.
func FormatDeclsPretty(w io.Writer, f *ast.File, fs *source.FileSet) error {
	root := BuildDeclTree(f)
	if _, err := fmt.Fprintln(w, declLabel(root, fs)); err != nil {
		return err
	}
	printDeclChildren(w, root.Children, "", fs)
	return nil
}

func printDeclChildren(w io.Writer, nodes []DeclNode, prefix string, fs *source.FileSet) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, declLabel(n, fs))
		printDeclChildren(w, n.Children, prefix+next, fs)
	}
}

func declLabel(n DeclNode, fs *source.FileSet) string {
	var b strings.Builder
	if len(n.Modifiers) > 0 {
		b.WriteString(strings.Join(n.Modifiers, " "))
		b.WriteByte(' ')
	}
	b.WriteString(n.Kind)
	switch {
	case n.Using != nil:
		b.WriteByte(' ')
		b.WriteString(usingLabel(n.Using))
	case n.Name != "":
		b.WriteByte(' ')
		b.WriteString(n.Name)
	}
	if n.FileScoped {
		b.WriteString(" (file-scoped)")
	}
	if len(n.Accessors) > 0 {
		b.WriteString(" { " + strings.Join(n.Accessors, "; ") + "; }")
	}
	if fs != nil && fs.Get(n.Span.File) != nil {
		b.WriteString(" @ " + formatSpan(n.Span, fs))
	}
	if n.Incomplete {
		b.WriteString(" [incomplete]")
	}
	return b.String()
}

func usingLabel(u *UsingNode) string {
	var parts []string
	if u.Global {
		parts = append(parts, "global")
	}
	if u.Static {
		parts = append(parts, "static")
	}
	if u.Unsafe {
		parts = append(parts, "unsafe")
	}
	if u.Alias != "" {
		parts = append(parts, u.Alias+" =")
	}
	parts = append(parts, u.Name)
	return strings.Join(parts, " ")
}
