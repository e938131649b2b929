package gocheck

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// DiagnosticSeverity mirrors the LSP diagnostic severity scale the driver
// maps onto a graph.Diagnostic.
type DiagnosticSeverity int

const (
	SeverityError   DiagnosticSeverity = 1
	SeverityWarning DiagnosticSeverity = 2
)

// Diagnostic is one syntactic or semantic diagnostic, the checker-contract
// analogue of a TS diagnostic tuple (file, start, length, category, code,
// message).
type Diagnostic struct {
	File      string
	Line      int
	Character int
	Severity  DiagnosticSeverity
	Message   string
}

// Diagnostics returns pkg's syntactic and semantic diagnostics -- go/packages
// does not distinguish the two kinds the way the TS compiler does, so every
// packages.Error surfaces at SeverityError.
func (c *Checker) Diagnostics(pkg *packages.Package) []Diagnostic {
	var out []Diagnostic
	for _, e := range pkg.Errors {
		file, line, col := splitErrorPos(e.Pos)
		out = append(out, Diagnostic{
			File:      file,
			Line:      line - 1,
			Character: col - 1,
			Severity:  SeverityError,
			Message:   e.Msg,
		})
	}
	return out
}

// splitErrorPos parses a packages.Error's "file:line:col" Pos field.
// Line/col default to 1 (so the 0-based conversion lands at 0,0) when the
// position is missing or malformed, which go/packages uses for
// whole-package errors with no specific location.
func splitErrorPos(pos string) (file string, line, col int) {
	line, col = 1, 1
	parts := strings.Split(pos, ":")
	if len(parts) < 3 {
		return pos, line, col
	}
	if v, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
		col = v
	}
	if v, err := strconv.Atoi(parts[len(parts)-2]); err == nil {
		line = v
	}
	return strings.Join(parts[:len(parts)-2], ":"), line, col
}

// OutliningSpans returns file's folding ranges: the grouped import block and
// every multi-line function body, type/const/var declaration group -- the
// Go analogue of getOutliningSpans' brace/region scan.
func (c *Checker) OutliningSpans(file *ast.File) []FoldingRange {
	var out []FoldingRange

	add := func(start, end token.Pos, kind FoldingRangeKind) {
		if !start.IsValid() || !end.IsValid() {
			return
		}
		sp, ep := c.FileSet.Position(start), c.FileSet.Position(end)
		if sp.Line >= ep.Line {
			return
		}
		out = append(out, FoldingRange{
			StartLine: sp.Line - 1, StartCharacter: sp.Column - 1,
			EndLine: ep.Line - 1, EndCharacter: ep.Column - 1,
			Kind: kind,
		})
	}

	if len(file.Imports) > 1 {
		add(file.Imports[0].Pos(), file.Imports[len(file.Imports)-1].End(), FoldingImports)
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch d := n.(type) {
		case *ast.FuncDecl:
			if d.Body != nil {
				add(d.Body.Lbrace, d.Body.Rbrace, FoldingRegion)
			}
		case *ast.GenDecl:
			if d.Lparen.IsValid() {
				add(d.Lparen, d.Rparen, FoldingRegion)
			}
		}
		return true
	})

	return out
}

// FoldingRangeKind names the region a folding range collapses.
type FoldingRangeKind string

const (
	FoldingImports FoldingRangeKind = "imports"
	FoldingRegion  FoldingRangeKind = "region"
)

// FoldingRange is one collapsible span, later translated into a
// graph.FoldingRange by the driver.
type FoldingRange struct {
	StartLine      int
	StartCharacter int
	EndLine        int
	EndCharacter   int
	Kind           FoldingRangeKind
}

// IsHostLibraryFile reports whether file is part of the Go standard library
// (host-provided) or was never one of the driver's own compiled files --
// the combined analogue of isSourceFileDefaultLibrary and
// isSourceFileFromExternalLibrary, since this checker only ever populates
// Packages/fileToPackage with the driver's own matched packages.
func (c *Checker) IsHostLibraryFile(file string) bool {
	pkg, ok := c.fileToPackage[file]
	if !ok {
		return true
	}
	return isStandardLibraryImportPath(pkg.Path())
}

// isStandardLibraryImportPath applies the same no-dot-in-first-segment
// heuristic the cross-package linker uses to recognize stdlib import paths.
func isStandardLibraryImportPath(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}

// AmbientModules returns the pseudo-package names referenced with no Go
// source of their own -- Go's closest analogue of TS's ambient module
// declarations is the compiler-synthesized "unsafe" and cgo "C" packages.
func (c *Checker) AmbientModules() []string {
	var out []string
	seen := map[string]bool{}
	for _, pkg := range c.Packages {
		for path := range pkg.Imports {
			if (path == "unsafe" || path == "C") && !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	return out
}

// CommonSourceDirectory returns the longest common directory prefix of
// every compiled file across every loaded package.
func (c *Checker) CommonSourceDirectory() string {
	files := c.RootFileNames()
	if len(files) == 0 {
		return ""
	}

	common := filepath.Dir(files[0])
	for _, f := range files[1:] {
		dir := filepath.Dir(f)
		for !strings.HasPrefix(dir+string(filepath.Separator), common+string(filepath.Separator)) && common != "." && common != string(filepath.Separator) {
			common = filepath.Dir(common)
		}
	}
	return common
}

// RootFileNames returns every compiled file across every loaded package, in
// package-then-file order.
func (c *Checker) RootFileNames() []string {
	var out []string
	for _, pkg := range c.Packages {
		out = append(out, pkg.CompiledGoFiles...)
	}
	return out
}
