package diagfmt

import (
	"encoding/json"
	"io"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"csorder/internal/diag"
	"csorder/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	// документация правил StyleCop
	styleCopHelpBase = "https://github.com/DotNetAnalyzers/StyleCopAnalyzers/blob/master/documentation/"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
	HelpURI          string       `json:"helpUri,omitempty"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

// sarifLevel переводит severity в уровень SARIF
func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// helpURI is set for the SA family only.
func helpURI(c diag.Code) string {
	if !c.IsOrdering() {
		return ""
	}
	return styleCopHelpBase + c.ID() + ".md"
}

// artifactURI: относительный путь с прямыми слэшами, если файл внутри baseDir.
func artifactURI(f *source.File, baseDir string) string {
	if f == nil {
		return "unknown"
	}
	p := formatPath(f, PathModeRelative, baseDir)
	p = filepath.ToSlash(p)
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return (&url.URL{Scheme: "file", Path: p}).String()
	}
	return (&url.URL{Path: p}).String()
}

func sarifRegionOf(sp source.Span, fs *source.FileSet) *sarifRegion {
	if fs.Get(sp.File) == nil {
		return nil
	}
	start, end := fs.Resolve(sp)
	return &sarifRegion{
		StartLine:   start.Line,
		StartColumn: start.Col,
		EndLine:     end.Line,
		EndColumn:   end.Col,
	}
}

func sarifLocationOf(sp source.Span, fs *source.FileSet) sarifLocation {
	return sarifLocation{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: artifactURI(fs.Get(sp.File), fs.BaseDir())},
		Region:           sarifRegionOf(sp, fs),
	}}
}

// sarifFixOf группирует правки по файлам; невалидный fix пропускается.
func sarifFixOf(fx *diag.Fix, fs *source.FileSet) (sarifFix, bool) {
	resolved, err := fx.Resolve(diag.FixBuildContext{FileSet: fs})
	if err != nil || len(resolved.Edits) == 0 {
		return sarifFix{}, false
	}
	out := sarifFix{Description: sarifMessage{Text: resolved.Title}}
	byFile := map[source.FileID]int{}
	for _, e := range resolved.Edits {
		region := sarifRegionOf(e.Span, fs)
		if region == nil {
			return sarifFix{}, false
		}
		idx, ok := byFile[e.Span.File]
		if !ok {
			idx = len(out.ArtifactChanges)
			byFile[e.Span.File] = idx
			out.ArtifactChanges = append(out.ArtifactChanges, sarifArtifactChange{
				ArtifactLocation: sarifArtifactLocation{URI: artifactURI(fs.Get(e.Span.File), fs.BaseDir())},
			})
		}
		repl := sarifReplacement{DeletedRegion: *region}
		if e.NewText != "" {
			repl.InsertedContent = &sarifMessage{Text: e.NewText}
		}
		out.ArtifactChanges[idx].Replacements = append(out.ArtifactChanges[idx].Replacements, repl)
	}
	return out, true
}

// BuildSarif собирает SARIF-лог без сериализации.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) sarifLog {
	items := bag.Items()

	// правила: уникальные коды в порядке возрастания
	var codes []diag.Code
	for _, d := range items {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
	}
	slices.Sort(codes)
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		rules[i] = sarifRule{
			ID:               c.ID(),
			ShortDescription: sarifMessage{Text: c.Title()},
			HelpURI:          helpURI(c),
		}
	}

	results := make([]sarifResult, 0, len(items))
	hasErrors := false
	for _, d := range items {
		if d.Severity == diag.SevError {
			hasErrors = true
		}
		r := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: slices.Index(codes, d.Code),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{sarifLocationOf(d.Primary, fs)},
		}
		for i, n := range d.Notes {
			loc := sarifLocationOf(n.Span, fs)
			loc.ID = i + 1
			loc.Message = &sarifMessage{Text: n.Msg}
			r.RelatedLocations = append(r.RelatedLocations, loc)
		}
		for _, fx := range d.Fixes {
			if sf, ok := sarifFixOf(fx, fs); ok {
				r.Fixes = append(r.Fixes, sf)
			}
		}
		results = append(results, r)
	}

	name := meta.ToolName
	if name == "" {
		name = "csorder"
	}
	return sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    name,
				Version: meta.ToolVersion,
				Rules:   rules,
			}},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: !hasErrors,
			}},
			Results: results,
		}},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildSarif(bag, fs, meta))
}
