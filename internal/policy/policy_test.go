package policy

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	p := Default()
	if !p.SystemUsingsFirst() {
		t.Fatalf("system usings should come first by default")
	}
	if p.Placement() != PlacementPreserve {
		t.Fatalf("default placement: %s", p.Placement())
	}
	if p.BlankLinesBetweenGroups() {
		t.Fatalf("blank lines should not be required by default")
	}
	if !p.ConstantsFirst() || !p.StaticFirst() || !p.ReadonlyFirst() {
		t.Fatalf("all member criteria should be on by default")
	}
	if p.KindRank(ContainerType, ElementField) != 0 || p.KindRank(ContainerType, ElementClass) != 11 {
		t.Fatalf("type kind table is off")
	}
	if p.KindRank(ContainerCompilationUnit, ElementNamespace) != 0 {
		t.Fatalf("compilation unit should reuse the namespace table")
	}
}

func TestUnlistedKindSortsLast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ordering.KindOrder.Type = []string{"method", "field"}
	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.KindRank(ContainerType, ElementMethod) != 0 || p.KindRank(ContainerType, ElementField) != 1 {
		t.Fatalf("custom ranks are off")
	}
	if p.KindRank(ContainerType, ElementProperty) != 2 || p.KindRank(ContainerType, ElementEvent) != 2 {
		t.Fatalf("unlisted kinds must share the last rank")
	}
}

func TestAccessRank(t *testing.T) {
	p := Default()
	if !(p.AccessRank(AccessPublic) < p.AccessRank(AccessInternal) &&
		p.AccessRank(AccessInternal) < p.AccessRank(AccessProtectedInternal) &&
		p.AccessRank(AccessProtectedInternal) < p.AccessRank(AccessProtected) &&
		p.AccessRank(AccessProtected) < p.AccessRank(AccessPrivateProtected) &&
		p.AccessRank(AccessPrivateProtected) < p.AccessRank(AccessPrivate)) {
		t.Fatalf("default access order is off")
	}

	cfg := DefaultConfig()
	cfg.Ordering.ProtectedInternalBeforeProtected = false
	demoted, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if demoted.AccessRank(AccessProtectedInternal) <= demoted.AccessRank(AccessProtected) {
		t.Fatalf("protected internal should be demoted")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"placement", func(c *Config) { c.Ordering.UsingDirectivesPlacement = "sideways" }, ErrUnknownPlacement},
		{"kind", func(c *Config) { c.Ordering.KindOrder.Type = []string{"field", "gadget"} }, ErrUnknownKind},
		{"criterion", func(c *Config) { c.Ordering.ElementOrder = []string{"kind", "colour"} }, ErrUnknownCriterion},
		{"duplicate", func(c *Config) { c.Ordering.ElementOrder = []string{"kind", "kind"} }, ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := Resolve(cfg); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCriteriaToggles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ordering.ElementOrder = []string{"accessibility", "kind"}
	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	order := p.ElementOrder()
	if len(order) != 2 || order[0] != CriterionAccess || order[1] != CriterionKind {
		t.Fatalf("element order: %v", order)
	}
	if p.StaticFirst() || p.ConstantsFirst() || p.ReadonlyFirst() {
		t.Fatalf("criteria missing from element_order must be off")
	}
}

func TestDecodeTOML(t *testing.T) {
	src := `
[ordering]
system_usings_first = false
using_directives_placement = "insideNamespace"

[ordering.kind_order]
type = ["method", "field"]

[lexer]
define = ["DEBUG", "TRACE"]
`
	cfg, err := DecodeTOML([]byte(src), "csorder.toml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.SystemUsingsFirst() || p.Placement() != PlacementInsideNamespace {
		t.Fatalf("ordering keys not applied")
	}
	if len(p.ElementOrder()) != 5 {
		t.Fatalf("omitted keys should keep defaults")
	}
	if p.KindRank(ContainerNamespace, ElementNamespace) != 0 {
		t.Fatalf("namespace table should keep its default")
	}
	if d := p.Defines(); len(d) != 2 || d[1] != "TRACE" {
		t.Fatalf("defines: %v", d)
	}
}

func TestDecodeTOMLUnknownKey(t *testing.T) {
	if _, err := DecodeTOML([]byte("[ordering]\nsytem_usings_first = true\n"), "x.toml"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestDecodeYAML(t *testing.T) {
	src := "ordering:\n  using_directives_placement: outsideNamespace\n  blank_lines_between_using_groups: true\n"
	cfg, err := DecodeYAML([]byte(src), ".csorder.yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Placement() != PlacementOutsideNamespace || !p.BlankLinesBetweenGroups() || !p.SystemUsingsFirst() {
		t.Fatalf("yaml keys not applied")
	}
	if _, err := DecodeYAML([]byte("ordering:\n  bogus: 1\n"), "x.yaml"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, ".csorder.yaml")
	if err := os.WriteFile(cfgPath, []byte("ordering:\n  system_usings_first: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, path, err := Load(nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if path != cfgPath {
		t.Fatalf("found %q, want %q", path, cfgPath)
	}
	if p.SystemUsingsFirst() {
		t.Fatalf("discovered file not applied")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDefault(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := DecodeTOML(buf.Bytes(), "csorder.toml")
	if err != nil {
		t.Fatalf("decode written default: %v\n%s", err, buf.String())
	}
	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Hash() != Default().Hash() {
		t.Fatalf("written default differs from built-in default")
	}
}

func TestHashChangesWithPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lexer.Define = []string{"DEBUG"}
	p, err := Resolve(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.Hash() == Default().Hash() {
		t.Fatalf("defines must affect the hash")
	}
}
