package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diag2svg <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Render diagram files to SVG")
	fmt.Fprintln(w, "  serve      Host the render page for an external browser")
	fmt.Fprintln(w, "  doctor     Check the system for rendering prerequisites")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'diag2svg help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diag2svg convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render diagram files to SVG in a headless browser.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Diagram file or directory (.excalidraw, .drawio)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renders (0 = auto)")
	fmt.Fprintln(w, "  -t, --type <s>            Input type: excalidraw, drawio (default: inferred)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser <s>         Backend: rod, chromedp")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome binary path")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox")
	fmt.Fprintln(w)
	printAssetUsage(w)
	printOutputControlUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diag2svg serve <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the render page and wait for a browser to post the result.")
	fmt.Fprintln(w, "Open the printed URL in any browser; the SVG is written once it arrives.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Diagram file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: "+defaultServeAddr+")")
	fmt.Fprintln(w, "  -t, --type <s>            Input type: excalidraw, drawio (default: inferred)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	printAssetUsage(w)
	printOutputControlUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: diag2svg doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, bundles and the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output as JSON")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory holding app.zip and fonts.zip")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Render:")
	fmt.Fprintln(w, "  -f, --format <s>          Output: embed, raw, no-font, path")
	fmt.Fprintln(w, "      --theme <s>           Theme: light, dark")
	fmt.Fprintln(w, "  -b, --background          Export the canvas background")
	fmt.Fprintln(w, "      --source              Embed the scene so the SVG can be reopened")
	fmt.Fprintln(w, "  -s, --scale <n>           Export scale (1-3)")
	fmt.Fprintln(w, "      --timeout <d>         Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
}

func printAssetUsage(w io.Writer) {
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory holding app.zip and fonts.zip")
	fmt.Fprintln(w, "      --rule-scoped-fonts   Pair font families and files per @font-face rule")
	fmt.Fprintln(w)
}

func printOutputControlUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: diag2svg version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: diag2svg help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
