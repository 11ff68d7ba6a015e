package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	TakesDir  bool     // accepts a directory argument
	Arguments []string // fixed positional values (e.g., shells)
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string // file glob pattern
	IsDir    bool   // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets - single source of truth.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "notion", Desc: "Sync selected Notion pages", Flags: extractFlagsFromFlagSet(buildNotionFlagSet(&notionFlags{}))},
		{Name: "vault", Desc: "Sync tagged Obsidian notes", Flags: extractFlagsFromFlagSet(buildVaultFlagSet(&vaultFlags{})), TakesDir: true},
		{Name: "history", Desc: "Show recent sync runs", Flags: extractFlagsFromFlagSet(buildHistoryFlagSet(&historyFlags{}))},
		{Name: "init", Desc: "Write a default config file"},
		{Name: "doctor", Desc: "Check configuration and environment", Flags: extractFlagsFromFlagSet(buildDoctorFlagSet(&doctorFlags{}))},
		{Name: "completion", Desc: "Generate shell completion script", Arguments: []string{"bash", "zsh", "fish"}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for cheatsync\n")
	b.WriteString("_cheatsync() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$prev\" in\n")
	b.WriteString("        -c|--config)\n")
	b.WriteString("            COMPREPLY=($(compgen -f -X '!*.@(yaml|yml)' -- \"$cur\"))\n")
	b.WriteString("            return ;;\n")
	b.WriteString("        -o|--output)\n")
	b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
	b.WriteString("            return ;;\n")
	b.WriteString("    esac\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		words := c.Arguments
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
			if f.Short != "" {
				words = append(words, "-"+f.Short)
			}
		}
		if len(words) == 0 && !c.TakesDir {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		if c.TakesDir {
			b.WriteString("            if [[ \"$cur\" != -* ]]; then\n")
			b.WriteString("                COMPREPLY=($(compgen -d -- \"$cur\"))\n")
			b.WriteString("                return\n")
			b.WriteString("            fi\n")
		}
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", strings.Join(words, " "))
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _cheatsync cheatsync\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape escapes characters special inside _arguments specs.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef cheatsync\n\n")
	b.WriteString("_cheatsync() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Arguments) == 0 && !c.TakesDir {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagFile:
				action = ":file:_files -g '(" + strings.ReplaceAll(f.FileGlob, ",", "|") + ")'"
			case flagDir:
				action = ":directory:_files -/"
			case flagString, flagInt:
				action = ":value:"
			}
			names := "--" + f.Long
			if f.Short != "" {
				names = "{-" + f.Short + ",--" + f.Long + "}"
			}
			fmt.Fprintf(&b, "                %s'[%s]%s' \\\n", names, zshEscape(f.Desc), action)
		}
		switch {
		case c.TakesDir:
			b.WriteString("                '1:vault:_files -/'\n")
		case len(c.Arguments) > 0:
			fmt.Fprintf(&b, "                '1:shell:(%s)'\n", strings.Join(c.Arguments, " "))
		default:
			b.WriteString("                '*: :'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _cheatsync cheatsync\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for cheatsync\n")
	b.WriteString("complete -c cheatsync -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c cheatsync -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c cheatsync -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -r"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
		if c.TakesDir {
			fmt.Fprintf(&b, "complete -c cheatsync -n '%s' -a '(__fish_complete_directories)'\n", cond)
		}
		if len(c.Arguments) > 0 {
			fmt.Fprintf(&b, "complete -c cheatsync -n '%s' -a '%s'\n", cond, strings.Join(c.Arguments, " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	return GenerateCompletion(env.Stdout, Shell(args[0]))
}
