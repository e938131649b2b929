package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/indexgraph/lsifcore/emit"
	"github.com/indexgraph/lsifcore/gocheck"
	"github.com/indexgraph/lsifcore/graph"
	"github.com/indexgraph/lsifcore/indexer"
	"github.com/indexgraph/lsifcore/internal/git"
	"github.com/indexgraph/lsifcore/internal/output"
)

const versionString = "0.1.0"

func realMain() error {
	if err := parseArgs(os.Args[1:]); err != nil {
		return err
	}

	out, closeOut, err := openSink()
	if err != nil {
		return err
	}
	defer closeOut()

	sink := newSink(out)
	ids := newIDGenerator()
	emitter := indexer.NewEmitter(ids, sink)

	opts := output.Options{Verbosity: output.DefaultOutput, ShowAnimations: !toStdout}

	var checker *gocheck.Checker
	output.WithProgress("Loading packages", func() {
		checker, err = gocheck.Load(projectPath, "./...")
	}, opts)
	if err != nil {
		return fmt.Errorf("load packages: %v", err)
	}

	resolveGroup()
	warnNoOpFlags()

	start := time.Now()
	driver := indexer.NewDriver(checker, emitter, projectPath, monikerMode())
	driver.EmbedContents = !noContents

	var indexErr error
	output.WithProgress("Indexing", func() {
		indexErr = driver.Index()
	}, opts)
	if indexErr != nil {
		return fmt.Errorf("index: %v", indexErr)
	}

	for _, warning := range driver.Warnings() {
		log.Printf("warning: %s", warning)
	}

	fmt.Fprintf(os.Stderr, "group=%s project=%s\n", group, projectNameOrDefault())
	fmt.Fprintln(os.Stderr, "Processed in", time.Since(start))
	return nil
}

// resolveGroup fills in --group from the enclosing git repository's remote
// when the caller didn't supply one, mirroring how the indexed workspace's
// identity is otherwise only knowable from its VCS metadata.
func resolveGroup() {
	if group != "" {
		return
	}
	if repo, err := git.InferRepo(projectPath); err == nil && repo != "" {
		group = repo
		return
	}
	if root, err := git.TopLevel(projectPath); err == nil && root != "" {
		group = filepath.Base(root)
	}
}

// warnNoOpFlags notes CLI options carried over for shape parity that have no
// Go-domain equivalent to act on: Go modules have no project-references file
// graph and no ambient JS type-acquisition step.
func warnNoOpFlags() {
	if noProjectReferences {
		log.Println("note: --noProjectReferences has no effect; Go has no project-references graph to follow")
	}
	if typeAcquisition {
		log.Println("note: --typeAcquisition has no effect; Go has no ambient type-acquisition step")
	}
}

func projectNameOrDefault() string {
	if projectName != "" {
		return projectName
	}
	return filepath.Base(projectPath)
}

func openSink() (io.Writer, func(), error) {
	if toStdout {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("create dump file: %v", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func newSink(w io.Writer) emit.Sink {
	if outputFormat == "json" {
		return emit.NewJSONArraySink(w)
	}
	return emit.NewLineSink(w)
}

func newIDGenerator() graph.IDGenerator {
	if idStrategy == "uuid" {
		return graph.NewUUIDIDGenerator()
	}
	return graph.NewNumberIDGenerator()
}
