package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script generation per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{
			"complete -F _cheatsync cheatsync",
			`"notion vault history init doctor completion version help"`,
			"--front-matter-titles",
			"compgen -d",
		}},
		{ShellZsh, []string{
			"#compdef cheatsync",
			"'notion:Sync selected Notion pages'",
			"{-o,--output}'[output directory]:directory:_files -/'",
			"'1:shell:(bash zsh fish)'",
		}},
		{ShellFish, []string{
			"complete -c cheatsync -n '__fish_use_subcommand' -a vault",
			"-l page -r",
			"-l config -s c -r -F",
			"-a 'bash zsh fish'",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("script missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, "powershell")
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

// ---------------------------------------------------------------------------
// TestExtractFlagsFromFlagSet - Completion metadata
// ---------------------------------------------------------------------------

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	flags := extractFlagsFromFlagSet(buildVaultFlagSet(&vaultFlags{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	tests := []struct {
		name  string
		typ   flagType
		short string
	}{
		{"config", flagFile, "c"},
		{"output", flagDir, "o"},
		{"workers", flagInt, "w"},
		{"sorted", flagBool, ""},
		{"tag", flagString, ""},
	}
	for _, tt := range tests {
		f, ok := byName[tt.name]
		if !ok {
			t.Errorf("flag %q missing", tt.name)
			continue
		}
		if f.Type != tt.typ || f.Short != tt.short {
			t.Errorf("flag %q = %+v, want type %d short %q", tt.name, f, tt.typ, tt.short)
		}
	}
}

func TestRunCompletion_NoShell(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	env := &Environment{Stdout: &out, Stderr: &bytes.Buffer{}}
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("runCompletion() error = %v", err)
	}
	if !strings.Contains(out.String(), "Usage: cheatsync completion <shell>") {
		t.Errorf("output = %q", out.String())
	}
}
