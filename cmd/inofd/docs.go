package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// manSections follow DESCRIPTION in the man page.
const manSections = `

# EXIT STATUS
**0** the search ran; stages that were skipped or failed are listed in the report.
**1** the target, its filesystem type or the search root could not be read.
**2** invalid arguments, flags or filter file.

# FILES
*$XDG_CONFIG_HOME/inofd/config.toml* holds [defaults] (workers, skip_hidden,
disable_reflink, force_hardlink, verify) and [filter] include/exclude rules.
Flags given on the command line override it.`

var treeGenerators = map[string]func(*cobra.Command, string) error{
	"markdown": doc.GenMarkdownTree,
	"rest":     doc.GenReSTTree,
}

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "gen-docs",
		Short:  "Write the inofd man page or reference docs",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE:   runGenDocs,
	}
	cmd.Flags().String("dir", "docs", "output directory")
	cmd.Flags().String("format", "man", "output format ("+strings.Join(docFormats(), ", ")+")")
	return cmd
}

func docFormats() []string {
	formats := []string{"man"}
	for name := range treeGenerators {
		formats = append(formats, name)
	}
	slices.Sort(formats)
	return formats
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")       //nolint:errcheck // flag name is hardcoded
	format, _ := cmd.Flags().GetString("format") //nolint:errcheck // flag name is hardcoded

	gen, ok := treeGenerators[format]
	if format != "man" && !ok {
		return fmt.Errorf("unknown format %q (use %s)", format, strings.Join(docFormats(), ", "))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true
	if ok {
		return gen(root, dir)
	}

	long := root.Long
	root.Long += manSections
	defer func() { root.Long = long }()
	return doc.GenManTree(root, &doc.GenManHeader{
		Title:   "INOFD",
		Section: "1",
		Manual:  "inofd manual",
		Source:  "inofd " + version,
	}, dir)
}
