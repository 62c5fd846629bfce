// recordctl is a CLI tool to decode, filter, and parse delimited
// record files against a declared schema.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mds/mdiff"
	"github.com/recordkit/recordkit/internal/record"
	"github.com/recordkit/recordkit/internal/schemahist"
	"github.com/recordkit/recordkit/internal/schemasrc"
)

func main() {
	log.SetFlags(0)

	root := &command.C{
		Name:  filepath.Base(os.Args[0]),
		Usage: "command [flags] ...\nhelp [command]",
		Help:  "A command-line tool to decode, filter and parse record files.",
		Commands: []*command.C{
			{
				Name:     "decode",
				Usage:    "<path>",
				Help:     "Detect the character encoding of a file and print its decoded lines.",
				SetFlags: command.Flags(flax.MustBind, &decodeArgs),
				Run:      command.Adapt(runDecode),
			},
			{
				Name:     "filter",
				Usage:    "<path>",
				Help:     "Decode a file and apply structural line filtering to it.",
				SetFlags: command.Flags(flax.MustBind, &filterArgs),
				Run:      command.Adapt(runFilter),
			},
			{
				Name:     "parse",
				Usage:    "<path> <schema.json>",
				Help:     "Decode, filter and parse a file's records against a schema document.",
				SetFlags: command.Flags(flax.MustBind, &parseArgs),
				Run:      command.Adapt(runParse),
			},
			{
				Name: "records",
				Commands: []*command.C{
					{
						Name:     "sort",
						Usage:    "<path> <schema.json> <field name>",
						Help:     "Parse a file's records and show a diff of the locale-aware sort order by a chosen Text field.",
						SetFlags: command.Flags(flax.MustBind, &recordsSortArgs),
						Run:      command.Adapt(runRecordsSort),
					},
				},
			},
			{
				Name: "schema",
				Commands: []*command.C{
					{
						Name:     "fetch",
						Usage:    "<repo-path>",
						Help:     "Fetch a schema document from a GitHub-hosted schema registry.",
						SetFlags: command.Flags(flax.MustBind, &schemaFetchArgs),
						Run:      command.Adapt(runSchemaFetch),
					},
					{
						Name:     "log",
						Usage:    "<schema path> <field,...>",
						Help:     "Show the local git history of a schema file's field definitions.",
						SetFlags: command.Flags(flax.MustBind, &schemaLogArgs),
						Run:      command.Adapt(runSchemaLog),
					},
				},
			},

			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx).MergeFlags(true)
	command.RunOrFail(env, os.Args[1:])
}

var decodeArgs struct {
	AssumeCodePage int  `flag:"assume-codepage,A starting default code page, as a numeric code page identifier"`
	NoRetry        bool `flag:"no-retry,Disable the iterative retry loop; decode in a single pass"`
}

func runDecode(env *command.Env, path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	lines, final, errs := record.LoadLines(bs, record.CodePage(decodeArgs.AssumeCodePage), !decodeArgs.NoRetry)
	for _, l := range lines {
		fmt.Fprintln(env, l.Text)
	}
	for _, e := range errs {
		fmt.Fprintln(env, e)
	}
	fmt.Fprintf(env, "final code page: %s\n", final)

	if len(errs) > 0 {
		return fmt.Errorf("decoding finished with %d error(s)", len(errs))
	}
	return nil
}

var filterArgs struct {
	StartSentinel string `flag:"start-sentinel,Line that marks just before the data window begins"`
	EndSentinel   string `flag:"end-sentinel,Line that marks just after the data window ends"`
	KeepEmpty     bool   `flag:"keep-empty,Do not skip empty/whitespace-only lines"`
	Prefix        string `flag:"prefix,Require every line to start with this prefix"`
	Substring     string `flag:"substring,Require every line to contain this substring"`
	Suffix        string `flag:"suffix,Require every line to end with this suffix"`
	ExactLength   int    `flag:"exact-length,Require every line to have exactly this length"`
	StopAtError   bool   `flag:"stop-at-error,Halt at the first structurally rejected line"`
}

func runFilter(env *command.Env, path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	lines, _, decErrs := record.LoadLines(bs, record.CPUnknown, true)

	opts := record.NewFilterOptions()
	opts.SkipEmpty = !filterArgs.KeepEmpty
	opts.StopAtError = filterArgs.StopAtError
	if filterArgs.StartSentinel != "" {
		opts.HasStart, opts.StartSentinel = true, filterArgs.StartSentinel
	}
	if filterArgs.EndSentinel != "" {
		opts.HasEnd, opts.EndSentinel = true, filterArgs.EndSentinel
	}
	if filterArgs.Prefix != "" {
		opts.HasPrefix, opts.Prefix = true, filterArgs.Prefix
	}
	if filterArgs.Substring != "" {
		opts.HasSubstr, opts.Substring = true, filterArgs.Substring
	}
	if filterArgs.Suffix != "" {
		opts.HasSuffix, opts.Suffix = true, filterArgs.Suffix
	}
	if filterArgs.ExactLength > 0 {
		opts.HasLength, opts.ExactLength = true, filterArgs.ExactLength
	}

	res := record.Filter(lines, opts)
	for _, l := range res.Lines {
		fmt.Fprintln(env, l.Text)
	}

	allErrs := append(append([]error{}, decErrs...), res.Errs...)
	for _, label := range errorsToLabels(allErrs) {
		fmt.Fprintln(env, label)
	}

	if !res.Success {
		return fmt.Errorf("filter rejected %d line(s)", res.Skipped)
	}
	return nil
}

var parseArgs struct {
	StopAtFirstError bool `flag:"stop-at-first-error,Halt parsing at the first field constraint violation"`
}

func runParse(env *command.Env, path, schemaPath string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	schemaBS, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema document: %w", err)
	}

	defs, opts, err := record.ParseSchemaDocument(schemaBS)
	if err != nil {
		return fmt.Errorf("invalid schema document: %w", err)
	}
	opts.StopAtFirstError = parseArgs.StopAtFirstError

	lines, _, decErrs := record.LoadLines(bs, record.CPUnknown, true)
	res := record.ReadFields(lines, defs, opts)

	for i, rec := range res.Records {
		var fields []string
		for _, d := range rec.Fields() {
			v, _ := rec.Get(d)
			fields = append(fields, fmt.Sprintf("%s=%s", d.Name, v.Raw))
		}
		fmt.Fprintf(env, "record %d: %s\n", i, strings.Join(fields, " "))
	}

	allErrs := append(append([]error{}, decErrs...), res.Errs...)
	for _, label := range errorsToLabels(allErrs) {
		fmt.Fprintln(env, label)
	}

	if !res.Success {
		return fmt.Errorf("parse failed on %d line(s)", len(res.ErrorLines))
	}
	return nil
}

var recordsSortArgs struct {
	Context int `flag:"context,default=3,Number of unchanged lines of context around each diff hunk"`
}

// runRecordsSort parses path against schemaPath, then shows a unified
// diff between the input order and the locale-aware sort order of its
// records by fieldName. This is display-only: ReadFields itself
// always returns records in input order, per the parser's
// order-preservation invariant.
func runRecordsSort(env *command.Env, path, schemaPath, fieldName string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	schemaBS, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema document: %w", err)
	}

	defs, opts, err := record.ParseSchemaDocument(schemaBS)
	if err != nil {
		return fmt.Errorf("invalid schema document: %w", err)
	}

	var target *record.FieldDef
	for _, d := range defs {
		if d.Name == fieldName {
			target = d
			break
		}
	}
	if target == nil {
		return fmt.Errorf("schema has no field named %q", fieldName)
	}

	lines, _, _ := record.LoadLines(bs, record.CPUnknown, true)
	res := record.ReadFields(lines, defs, opts)

	before := make([]string, len(res.Records))
	for i, rec := range res.Records {
		v, _ := rec.Get(target)
		before[i] = v.Raw
	}

	after := append([]string{}, before...)
	sort.SliceStable(after, func(i, j int) bool {
		return record.CompareText(after[i], after[j]) < 0
	})

	diff := mdiff.New(before, after).AddContext(recordsSortArgs.Context)
	mdiff.FormatUnified(env, diff, &mdiff.FileInfo{
		Left:  fmt.Sprintf("%s (input order)", fieldName),
		Right: fmt.Sprintf("%s (sorted order)", fieldName),
	})

	return nil
}

var schemaFetchArgs struct {
	Owner string `flag:"gh-owner,Owner of the GitHub repository hosting the schema registry"`
	Repo  string `flag:"gh-repo,GitHub repository hosting the schema registry"`
	Ref   string `flag:"ref,default=HEAD,Git ref (commit hash, branch or tag) to fetch the schema at"`
}

func runSchemaFetch(env *command.Env, repoPath string) error {
	if schemaFetchArgs.Owner == "" || schemaFetchArgs.Repo == "" {
		return fmt.Errorf("--gh-owner and --gh-repo are required")
	}

	client := schemasrc.Client{
		Owner: schemaFetchArgs.Owner,
		Repo:  schemaFetchArgs.Repo,
		Path:  repoPath,
	}

	ctx, cancel := context.WithTimeout(env.Context(), 30*time.Second)
	defer cancel()

	bs, err := client.SchemaAtHash(ctx, schemaFetchArgs.Ref)
	if err != nil {
		return fmt.Errorf("fetching schema: %w", err)
	}

	os.Stdout.Write(bs)
	return nil
}

var schemaLogArgs struct {
	Clone string `flag:"git-clone,Path to a local clone of the schema registry repository"`
}

func runSchemaLog(env *command.Env, schemaPath, fieldsCSV string) error {
	if schemaLogArgs.Clone == "" {
		return fmt.Errorf("--git-clone is required")
	}

	fields := strings.Split(fieldsCSV, ",")
	hist, err := schemahist.GetFieldHistory(schemaLogArgs.Clone, schemaPath, fields)
	if err != nil {
		return fmt.Errorf("reading schema history: %w", err)
	}

	for _, name := range fields {
		changes := hist.Changes[name]
		fmt.Fprintf(env, "%s: %d change(s)\n", name, len(changes))
		for _, c := range changes {
			fmt.Fprintf(env, "  %s %s\n", c.CommitHash[:min(12, len(c.CommitHash))], c.Summary)
		}
	}

	return nil
}
