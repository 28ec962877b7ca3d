package driver

import (
	"context"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/policy"
	"csorder/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.File
	Bag     *diag.Bag
}

// Parse builds the declaration tree of path without running the rules.
func Parse(ctx context.Context, path string, pol *policy.Policy, maxDiagnostics int) (*ParseResult, error) {
	res, err := DiagnoseFile(ctx, path, DiagnoseOptions{
		Stage:          DiagnoseStageSyntax,
		Policy:         pol,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FileSet: res.FileSet,
		File:    res.File,
		Tree:    res.Tree,
		Bag:     res.Bag,
	}, nil
}
