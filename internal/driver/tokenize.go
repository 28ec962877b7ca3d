package driver

import (
	"fmt"

	"csorder/internal/diag"
	"csorder/internal/lexer"
	"csorder/internal/policy"
	"csorder/internal/source"
	"csorder/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path with the policy's preprocessor symbols.
func Tokenize(path string, pol *policy.Policy, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := fs.Get(fileID)
	if pol == nil {
		pol = policy.Default()
	}

	bag := diag.NewBag(bagLimit(maxDiagnostics))
	tokens := lexer.Tokenize(file, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Defines:  pol.Defines(),
	})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
