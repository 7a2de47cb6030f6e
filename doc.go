// Package diag2svg converts diagram documents to SVG using a headless browser.
//
// # Quick Start
//
// Create a converter, convert a document, and close when done:
//
//	conv, err := diag2svg.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	data, _ := os.ReadFile("drawing.excalidraw")
//	result, err := conv.Convert(ctx, diag2svg.Input{
//	    Data: data,
//	    Type: diag2svg.InputExcalidraw,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("drawing.svg", result.SVG, 0644)
//
// The result contains both the post-processed SVG (result.SVG) and the
// renderer's markup as posted by the page (result.Raw).
//
// # Render Transaction
//
// Every Convert call runs one transaction:
//
//  1. Bind a loopback port chosen by the OS
//  2. Serve the application bundle, the input document (as input.excalidraw)
//     and the export options (/export_opts)
//  3. Open the page in headless Chrome (go-rod or chromedp)
//  4. Wait for the page to POST the rendered SVG to /return
//  5. Post-process fonts according to Input.Format
//
// The transaction ends at the first of: a delivered result, a browser
// failure, a server failure, or the timeout. Failures are reported as
// *RenderError carrying the Stage that failed.
//
// # Output Formats
//
//   - FormatEmbed (default): each font referenced by the SVG is inlined as a
//     base64 data URI read from the font bundle
//   - FormatRaw: markup exactly as rendered
//   - FormatNoFont: the font style block is emptied
//   - FormatPath: reserved, returns ErrUnsupportedFormat
//
// # Configuration
//
//	conv, err := diag2svg.NewConverter(
//	    diag2svg.WithTimeout(2 * time.Minute),
//	    diag2svg.WithBrowser(diag2svg.BrowserChromedp),
//	    diag2svg.WithAssetPath("/path/to/bundles"),
//	)
//
// Export options are passed per conversion:
//
//	result, err := conv.Convert(ctx, diag2svg.Input{
//	    Data:   data,
//	    Export: diag2svg.ExportConfig{Theme: diag2svg.ThemeLight, Scale: 2},
//	    Format: diag2svg.FormatNoFont,
//	})
//
// A Converter is safe for concurrent use. Each call gets its own port and
// page; the bundles are shared read-only.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to bound browser instances:
//
//	pool := diag2svg.NewConverterPool(diag2svg.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod backend downloads a managed
// Chromium on first run (~/.cache/rod/browser/). The chromedp backend uses
// the Chrome found on PATH.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package diag2svg
