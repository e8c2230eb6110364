// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"sccp/internal/cpsparser"
	"sccp/internal/errors"
	"sccp/internal/sccp"
	"sccp/internal/sccpcli"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sccp-cli <file.cps>")
		os.Exit(1)
	}

	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %s\n", err)
		os.Exit(1)
	}

	prog, err := cpsparser.Parse(path, string(source))
	if err != nil {
		fmt.Print(cpsparser.FormatParseError(path, string(source), err))
		os.Exit(1)
	}

	root, _, branches, errs := cpsparser.Build(prog)
	if len(errs) > 0 {
		reporter := errors.NewErrorReporter(path, string(source))
		for _, e := range errs {
			fmt.Fprint(os.Stderr, reporter.FormatError(e))
		}
		os.Exit(1)
	}

	result := sccp.Run(root, sccp.Config{})

	reporter := errors.NewErrorReporter(path, string(source))
	for _, db := range sccpcli.DeadBranchWarnings(branches, result) {
		fmt.Fprint(os.Stderr, reporter.FormatError(db))
	}

	stats := sccp.NewTransformer(result).Transform(root)

	fmt.Println(sccpcli.PrintRoot(root, result))
	fmt.Println(sccpcli.Report(stats))
}
