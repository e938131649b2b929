package main

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kingpin"

	"github.com/indexgraph/lsifcore/indexer"
)

var app = kingpin.New(
	"lsifcore",
	"lsifcore is an indexing-graph generator for Go.",
).Version(versionString)

var (
	projectPath         string
	outFile             string
	toStdout            bool
	outputFormat        string
	idStrategy          string
	group               string
	projectName         string
	noContents          bool
	noProjectReferences bool
	typeAcquisition     bool
	monikerModeFlag     string
)

func init() {
	app.HelpFlag.Short('h')
	app.VersionFlag.Short('v')
	app.HelpFlag.Hidden()

	app.Flag("p", "Directory or import pattern to index.").Short('p').Default(".").StringVar(&projectPath)
	app.Flag("out", "The output file.").Short('o').Default("dump.lsif").StringVar(&outFile)
	app.Flag("stdout", "Write the dump to standard output instead of --out.").Default("false").BoolVar(&toStdout)
	app.Flag("outputFormat", "Emitter sink format.").Default("line").EnumVar(&outputFormat, "line", "json")
	app.Flag("id", "Id generator strategy.").Default("number").EnumVar(&idStrategy, "number", "uuid")
	app.Flag("group", "Workspace-group descriptor (name or file); inferred from the enclosing git repository when omitted.").StringVar(&group)
	app.Flag("projectName", "Override the indexed module's inferred name.").StringVar(&projectName)
	app.Flag("noContents", "Omit base64-encoded source bodies from document vertices.").Default("false").BoolVar(&noContents)
	app.Flag("noProjectReferences", "No-op: Go has no project-references equivalent to follow.").Default("false").BoolVar(&noProjectReferences)
	app.Flag("typeAcquisition", "No-op: Go has no ambient JS type-acquisition equivalent.").Default("false").BoolVar(&typeAcquisition)
	app.Flag("moniker", "strict fails when an exported symbol has no moniker; lenient warns.").Default("lenient").EnumVar(&monikerModeFlag, "strict", "lenient")
}

func parseArgs(args []string) error {
	if _, err := app.Parse(args); err != nil {
		return err
	}

	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("get abspath of project path: %v", err)
	}
	projectPath = abs

	return nil
}

func monikerMode() indexer.MonikerMode {
	if monikerModeFlag == "strict" {
		return indexer.MonikerStrict
	}
	return indexer.MonikerLenient
}
