package main

import (
	"fmt"
	"io"
)

// printUsage prints the top-level help.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "cheatsync - collect code snippets from Notion and Obsidian into cheatsheets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: cheatsync <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  notion      Sync selected Notion pages, one cheatsheet per page")
	fmt.Fprintln(w, "  vault       Sync tagged Obsidian notes into one cheatsheet")
	fmt.Fprintln(w, "  history     Show recent sync runs")
	fmt.Fprintln(w, "  init        Write a default config file")
	fmt.Fprintln(w, "  doctor      Check configuration and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cheatsync help <command>' for details.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common flags:")
	fmt.Fprintln(w, "  -c, --config <name|path>  Config file (default: cheatsync.yaml if present)")
	fmt.Fprintln(w, "  -q, --quiet               Only report errors")
	fmt.Fprintln(w, "  -v, --verbose             Report every sync unit")
	fmt.Fprintln(w, "      --json-log            Log as JSON lines on stderr")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Output flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: current directory)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --html                Also write an HTML preview of each cheatsheet")
	fmt.Fprintln(w, "      --keep-comments       Keep comment lines in snippets")
	fmt.Fprintln(w, "      --preserve-language   Label code fences with their language")
}

func printNotionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatsync notion [--page ID]... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sync every page whose selection checkbox is ticked, or the pages given")
	fmt.Fprintln(w, "with --page. Each page becomes <output>/<page id>.md.")
	fmt.Fprintln(w, "The integration token is read from NOTION_TOKEN (or a .env file).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notion flags:")
	fmt.Fprintln(w, "      --page <id>           Sync this page ID (repeatable)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-page fetch timeout (default: 30s)")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printVaultUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatsync vault [DIR] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scan the vault DIR (default: vault.dir) for notes tagged with --tag,")
	fmt.Fprintln(w, "in front matter or as #tag in the body, and write one cheatsheet with")
	fmt.Fprintln(w, "a section per note to <output>/obsidian_<tag>.md.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Vault flags:")
	fmt.Fprintln(w, "      --tag <tag>           Tag selecting the notes (default: arsenyc)")
	fmt.Fprintln(w, "      --name <file>         Output file name")
	fmt.Fprintln(w, "      --sorted              Order sections by note path")
	fmt.Fprintln(w, "      --front-matter-titles Name sections by the note's front-matter title")
	fmt.Fprintln(w, "      --include-hidden      Scan hidden directories such as .obsidian")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printHistoryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatsync history [--limit n] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the most recent sync runs, newest first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -n, --limit <n>           Number of runs to show (default: 20)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatsync init [name|path] [--force]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the default configuration. A name is created in the user config")
	fmt.Fprintln(w, "directory (e.g., ~/.config/cheatsync/<name>.yaml); a path is used as given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatsync doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the Notion token, configuration, output directory, vault and")
	fmt.Fprintln(w, "sync history. Exits 1 when an error is found.")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cheatsync completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(cheatsync completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(cheatsync completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    cheatsync completion fish > ~/.config/fish/completions/cheatsync.fish")
}

// commandUsage maps command names to their help printers.
var commandUsage = map[string]func(io.Writer){
	"notion":     printNotionUsage,
	"vault":      printVaultUsage,
	"history":    printHistoryUsage,
	"init":       printInitUsage,
	"doctor":     printDoctorUsage,
	"completion": printCompletionUsage,
}

// runHelp prints help for a command, or the top-level help.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}
	usage, ok := commandUsage[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	usage(env.Stdout)
	return nil
}
