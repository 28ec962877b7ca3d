package policy

import (
	"fmt"
	"slices"
	"strings"
)

// Config is the on-disk form of the policy (csorder.toml / .csorder.yaml).
type Config struct {
	Ordering OrderingConfig `toml:"ordering" yaml:"ordering"`
	Lexer    LexerConfig    `toml:"lexer" yaml:"lexer"`
}

type OrderingConfig struct {
	ElementOrder                     []string        `toml:"element_order" yaml:"element_order"`
	SystemUsingsFirst                bool            `toml:"system_usings_first" yaml:"system_usings_first"`
	UsingDirectivesPlacement         string          `toml:"using_directives_placement" yaml:"using_directives_placement"`
	BlankLinesBetweenUsingGroups     bool            `toml:"blank_lines_between_using_groups" yaml:"blank_lines_between_using_groups"`
	ProtectedInternalBeforeProtected bool            `toml:"protected_internal_before_protected" yaml:"protected_internal_before_protected"`
	KindOrder                        KindOrderConfig `toml:"kind_order" yaml:"kind_order"`
}

type KindOrderConfig struct {
	Type            []string `toml:"type" yaml:"type"`
	Namespace       []string `toml:"namespace" yaml:"namespace"`
	CompilationUnit []string `toml:"compilation_unit,omitempty" yaml:"compilation_unit,omitempty"`
}

type LexerConfig struct {
	Define []string `toml:"define" yaml:"define"`
}

// DefaultConfig returns the built-in settings. Files are decoded on top of it,
// so keys a file omits keep these values.
func DefaultConfig() Config {
	return Config{
		Ordering: OrderingConfig{
			ElementOrder:                     []string{"kind", "accessibility", "constant", "static", "readonly"},
			SystemUsingsFirst:                true,
			UsingDirectivesPlacement:         "preserve",
			BlankLinesBetweenUsingGroups:     false,
			ProtectedInternalBeforeProtected: true,
			KindOrder: KindOrderConfig{
				Type: []string{
					"field", "constructor", "destructor", "delegate", "event", "enum",
					"interface", "property", "indexer", "method", "struct", "class",
				},
				Namespace: []string{"namespace", "delegate", "enum", "interface", "struct", "class"},
			},
		},
		Lexer: LexerConfig{Define: []string{}},
	}
}

// Default returns the policy for DefaultConfig.
func Default() *Policy {
	p, err := Resolve(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("policy: default config does not resolve: %v", err))
	}
	return p
}

// Resolve validates cfg and builds the immutable policy.
func Resolve(cfg Config) (*Policy, error) {
	p := &Policy{
		systemFirst: cfg.Ordering.SystemUsingsFirst,
		blankLines:  cfg.Ordering.BlankLinesBetweenUsingGroups,
	}

	for _, name := range cfg.Ordering.ElementOrder {
		c, ok := parseCriterion(name)
		if !ok {
			return nil, fmt.Errorf("ordering.element_order: %w: %q", ErrUnknownCriterion, name)
		}
		if slices.Contains(p.elementOrder, c) {
			return nil, fmt.Errorf("ordering.element_order: %w: %q", ErrDuplicate, name)
		}
		p.elementOrder = append(p.elementOrder, c)
	}

	placement, err := ParsePlacement(cfg.Ordering.UsingDirectivesPlacement)
	if err != nil {
		return nil, fmt.Errorf("ordering.using_directives_placement: %w", err)
	}
	p.placement = placement

	cuTable := cfg.Ordering.KindOrder.CompilationUnit
	if len(cuTable) == 0 {
		cuTable = cfg.Ordering.KindOrder.Namespace
	}
	tables := [numContainers][]string{
		ContainerCompilationUnit: cuTable,
		ContainerNamespace:       cfg.Ordering.KindOrder.Namespace,
		ContainerType:            cfg.Ordering.KindOrder.Type,
	}
	for c, names := range tables {
		for i, name := range names {
			k, ok := ParseElementKind(name)
			if !ok {
				return nil, fmt.Errorf("ordering.kind_order.%s: %w: %q", Container(c), ErrUnknownKind, name)
			}
			if p.kindRank[c][k] != 0 {
				return nil, fmt.Errorf("ordering.kind_order.%s: %w: %q", Container(c), ErrDuplicate, name)
			}
			p.kindRank[c][k] = i + 1
		}
		p.kindLen[c] = len(names)
	}

	order := []Access{
		AccessPublic, AccessInternal, AccessProtectedInternal, AccessProtected,
		AccessPrivateProtected, AccessPrivate,
	}
	if !cfg.Ordering.ProtectedInternalBeforeProtected {
		order[2], order[3] = order[3], order[2]
	}
	for i, a := range order {
		p.accessRank[a] = i
	}

	for _, d := range cfg.Lexer.Define {
		d = strings.TrimSpace(d)
		if d != "" && !slices.Contains(p.defines, d) {
			p.defines = append(p.defines, d)
		}
	}
	p.hash = p.computeHash()
	return p, nil
}

func parseCriterion(s string) (Criterion, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "access" {
		return CriterionAccess, true
	}
	for c := range numCriteria {
		if criterionNames[c] == s {
			return c, true
		}
	}
	return 0, false
}
