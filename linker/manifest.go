package linker

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// stdlibModule is the synthetic module identity the linker attaches to
// standard library import paths, which have no host-qualified segment of
// their own.
const stdlibModule = "github.com/golang/go"

// Manifest is a resolved module identity, usable as a PackageInformation
// vertex's name and version.
type Manifest struct {
	Name    string
	Version string
}

// manifestEntry is one module discovered under a vendor tree: its declared
// path (from go.mod) and, if available, its recorded version (from the
// sibling modules.txt Go's own vendoring tool writes).
type manifestEntry struct {
	path    string
	version string
}

// isStandardLibraryPackage reports whether path looks like a standard
// library import path rather than a host-qualified one: no dot in its first
// path segment, the same heuristic gomod/dependencies.go's
// IsStandardlibPackge uses.
func isStandardLibraryPackage(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}

// discoverVendorModules walks root for nested go.mod files, parsing each
// one's declared module path via golang.org/x/mod/modfile -- the vendor-tree
// analogue of a node_modules package.json scan, since a vendored
// Go dependency's own go.mod is the closest on-disk manifest this checker's
// domain has to offer. Versions are filled in from root/modules.txt, the
// format `go mod vendor` writes, when present.
func discoverVendorModules(root string) []manifestEntry {
	versions := readModulesTxt(filepath.Join(root, "modules.txt"))

	var entries []manifestEntry
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "go.mod" {
			return nil
		}

		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil
		}

		mf, perr := modfile.Parse(path, data, nil)
		if perr != nil || mf.Module == nil {
			return nil
		}

		entries = append(entries, manifestEntry{
			path:    mf.Module.Mod.Path,
			version: versions[mf.Module.Mod.Path],
		})
		return nil
	})

	return entries
}

// readModulesTxt parses the "# module version" header lines `go mod vendor`
// writes to vendor/modules.txt, skipping "## explicit"/"## go X.Y"
// annotation lines. Returns an empty map if the file doesn't exist.
func readModulesTxt(path string) map[string]string {
	versions := map[string]string{}

	f, err := os.Open(path)
	if err != nil {
		return versions
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "# ") || strings.HasPrefix(line, "## ") {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(line, "# "))
		if len(fields) != 2 {
			continue
		}
		versions[fields[0]] = fields[1]
	}

	return versions
}
