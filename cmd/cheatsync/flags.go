package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cheatsync/internal/logging"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags are shared by every sync command.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	jsonLog bool
}

// renderFlags control how cheatsheets are written.
type renderFlags struct {
	output           string
	workers          int
	html             bool
	keepComments     bool
	preserveLanguage bool
}

// notionFlags holds flags of the notion command.
type notionFlags struct {
	common  commonFlags
	render  renderFlags
	pages   []string
	timeout string
}

// vaultFlags holds flags of the vault command.
type vaultFlags struct {
	common            commonFlags
	render            renderFlags
	tag               string
	name              string
	sorted            bool
	frontMatterTitles bool
	includeHidden     bool
}

// historyFlags holds flags of the history command.
type historyFlags struct {
	common commonFlags
	limit  int
}

// doctorFlags holds flags of the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only report errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report every sync unit")
	fs.BoolVar(&f.jsonLog, "json-log", false, "log as JSON lines on stderr")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.html, "html", false, "also write an HTML preview of each cheatsheet")
	fs.BoolVar(&f.keepComments, "keep-comments", false, "keep comment lines in snippets")
	fs.BoolVar(&f.preserveLanguage, "preserve-language", false, "label code fences with their language")
}

// logOptions maps the verbosity flags to logger options.
func (f commonFlags) logOptions() logging.Options {
	opts := logging.Options{JSON: f.jsonLog}
	switch {
	case f.quiet:
		opts.Level = logging.LevelQuiet
	case f.verbose:
		opts.Level = logging.LevelVerbose
	}
	return opts
}

func buildNotionFlagSet(f *notionFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("notion", flag.ContinueOnError)
	fs.StringArrayVar(&f.pages, "page", nil, "sync this page ID (repeatable)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-page fetch timeout (e.g., 30s, 2m)")
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
	return fs
}

func buildVaultFlagSet(f *vaultFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("vault", flag.ContinueOnError)
	fs.StringVar(&f.tag, "tag", "", "tag selecting the notes (default from config)")
	fs.StringVar(&f.name, "name", "", "output file name (default obsidian_<tag>.md)")
	fs.BoolVar(&f.sorted, "sorted", false, "order sections by note path")
	fs.BoolVar(&f.frontMatterTitles, "front-matter-titles", false, "name sections by the note's front-matter title")
	fs.BoolVar(&f.includeHidden, "include-hidden", false, "scan hidden directories such as .obsidian")
	addRenderFlags(fs, &f.render)
	addCommonFlags(fs, &f.common)
	return fs
}

func buildHistoryFlagSet(f *historyFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.IntVarP(&f.limit, "limit", "n", 0, "number of runs to show (0 = 20)")
	addCommonFlags(fs, &f.common)
	return fs
}

func buildDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseFlagSet parses args, printing usage to w on error or -h.
// Parse errors are wrapped with ErrUsage; -h returns flag.ErrHelp.
func parseFlagSet(fs *flag.FlagSet, args []string, w io.Writer, usage func(io.Writer)) ([]string, error) {
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		// ContinueOnError leaves reporting to the caller.
		fs.Usage()
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

func parseNotionFlags(args []string, w io.Writer) (*notionFlags, []string, error) {
	f := &notionFlags{}
	rest, err := parseFlagSet(buildNotionFlagSet(f), args, w, printNotionUsage)
	return f, rest, err
}

func parseVaultFlags(args []string, w io.Writer) (*vaultFlags, []string, error) {
	f := &vaultFlags{}
	rest, err := parseFlagSet(buildVaultFlagSet(f), args, w, printVaultUsage)
	return f, rest, err
}

func parseHistoryFlags(args []string, w io.Writer) (*historyFlags, []string, error) {
	f := &historyFlags{}
	rest, err := parseFlagSet(buildHistoryFlagSet(f), args, w, printHistoryUsage)
	return f, rest, err
}

func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, []string, error) {
	f := &doctorFlags{}
	rest, err := parseFlagSet(buildDoctorFlagSet(f), args, w, printDoctorUsage)
	return f, rest, err
}
