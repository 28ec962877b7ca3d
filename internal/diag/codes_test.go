package diag

import "testing"

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		OrdUsingPlacement:           "SA1200",
		OrdElementKind:              "SA1201",
		OrdReadonlyFirst:            "SA1214",
		OrdStaticUsingsAlphabetical: "SA1217",
		LexUnterminatedString:       "LEX1002",
		SynExpectSemicolon:          "SYN2003",
		CfgUnknownPlacement:         "CFG5002",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: want %s, got %s", code, want, got)
		}
		back, ok := ParseID(want)
		if !ok || back != code {
			t.Fatalf("ParseID(%s) = %v, %v", want, back, ok)
		}
	}
	if _, ok := ParseID("SA9999"); ok {
		t.Fatalf("unexpected code for SA9999")
	}
}

func TestOrderingFamily(t *testing.T) {
	if !OrdAccessLevel.IsOrdering() {
		t.Fatalf("SA1202 must be an ordering code")
	}
	if LexBadNumber.IsOrdering() || SynUnexpectedToken.IsOrdering() {
		t.Fatalf("lexer/parser codes must not be ordering codes")
	}
}
