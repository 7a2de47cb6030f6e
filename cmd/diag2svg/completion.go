package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-diag2svg/internal/config"
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

// completionMeta holds completion hints for flags that take a constrained
// value. Names, shorthands and descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

var flagCompletionMeta = map[string]completionMeta{
	"type":    {Values: []string{"excalidraw", "drawio"}},
	"format":  {Values: config.Formats},
	"theme":   {Values: config.Themes},
	"browser": {Values: config.Backends},
	"scale":   {Values: []string{"1", "2", "3"}},

	"config":      {FileGlob: "*.yaml,*.yml"},
	"browser-bin": {FileGlob: "*"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string
	Short  string
	Desc   string
	Meta   completionMeta
	HasVal bool // takes a value
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// extractFlags converts a FlagSet into completion definitions.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		defs = append(defs, flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			Meta:   flagCompletionMeta[f.Name],
			HasVal: f.Value.Type() != "bool",
		})
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Long < defs[j].Long })
	return defs
}

// getCommands returns the command registry. Flags are read from the same
// FlagSets the commands parse with.
func getCommands() []commandDef {
	convertFS, _, _ := parseConvertFlags(nil, io.Discard)
	serveFS, _, _ := parseServeFlags(nil, io.Discard)

	return []commandDef{
		{Name: "convert", Desc: "Render diagram files to SVG", Flags: extractFlags(convertFS)},
		{Name: "serve", Desc: "Host the render page for an external browser", Flags: extractFlags(serveFS)},
		{Name: "doctor", Desc: "Check the system for rendering prerequisites", Flags: []flagDef{
			{Long: "json", Desc: "output as JSON"},
			{Long: "asset-path", Desc: "directory holding app.zip and fonts.zip", HasVal: true, Meta: completionMeta{IsDir: true}},
		}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for diag2svg\n")
	b.WriteString("_diag2svg() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if seen[f.Long] || !f.HasVal {
				continue
			}
			seen[f.Long] = true
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern += "|-" + f.Short
			}
			switch {
			case len(f.Meta.Values) > 0:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Meta.Values, " "))
			case f.Meta.IsDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
			default:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", pattern)
			}
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(opts, " "))
		b.WriteString("            else\n")
		b.WriteString("                COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		b.WriteString("            fi ;;\n")
	}
	fmt.Fprintf(&b, "        help) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", commandNames(cmds))
	fmt.Fprintf(&b, "        completion) COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", "bash zsh fish")
	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _diag2svg diag2svg\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef diag2svg\n\n")
	b.WriteString("_diag2svg() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n            _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			action := ""
			if f.HasVal {
				switch {
				case len(f.Meta.Values) > 0:
					action = fmt.Sprintf(":value:(%s)", strings.Join(f.Meta.Values, " "))
				case f.Meta.IsDir:
					action = ":dir:_files -/"
				default:
					action = ":file:_files"
				}
			}
			if f.Short != "" {
				fmt.Fprintf(&b, "                '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, zshEscape(f.Desc), action)
			} else {
				fmt.Fprintf(&b, "                '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), action)
			}
		}
		b.WriteString("                '*:file:_files'\n            ;;\n")
	}
	b.WriteString("        completion) _values 'shell' bash zsh fish ;;\n")
	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _diag2svg diag2svg\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for diag2svg\n")
	b.WriteString("complete -c diag2svg -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c diag2svg -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c diag2svg -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch {
			case len(f.Meta.Values) > 0:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Meta.Values, " "))
			case f.Meta.IsDir:
				line += " -x -a '(__fish_complete_directories)'"
			case f.HasVal:
				line += " -r -F"
			}
			line += fmt.Sprintf(" -d '%s'\n", fishEscape(f.Desc))
			b.WriteString(line)
		}
	}
	b.WriteString("complete -c diag2svg -n '__fish_seen_subcommand_from convert serve' -F\n")
	b.WriteString("complete -c diag2svg -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diag2svg completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(diag2svg completion bash)\"            # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(diag2svg completion zsh)\"             # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  diag2svg completion fish > ~/.config/fish/completions/diag2svg.fish")
}
