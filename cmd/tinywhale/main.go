package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	tinywhale "github.com/tinywhale-lang/tinywhale"
	"github.com/tinywhale-lang/tinywhale/internal/diagnostics"
)

func main() {
	var (
		outDir   string
		target   string
		optimize bool
		noColor  bool
	)

	buildCmd := &cobra.Command{
		Use:           "build <input.tw>",
		Short:         "Compile a TinyWhale source file to WebAssembly",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], outDir, target, optimize, shouldUseColor(noColor))
		},
	}
	buildCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	buildCmd.Flags().StringVarP(&target, "type", "t", "wasm", `Output type: "wasm" or "wat"`)
	buildCmd.Flags().BoolVar(&optimize, "optimize", false, "Enable optimizations")
	buildCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd := &cobra.Command{
		Use:           "tinywhale",
		Short:         "The TinyWhale compiler",
		SilenceErrors: true,
	}
	rootCmd.AddCommand(buildCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", colorize("Error: ", colorRed, shouldUseColor(noColor)), err, colorReset)
		os.Exit(1)
	}
}

func runBuild(inputPath, outDir, target string, optimize, useColor bool) error {
	if target != "wasm" && target != "wat" {
		d := diagnostics.NewLog("", "").Emit("TWCLI004", diagnostics.Span{}, diagnostics.Vars{"kind": target})
		return fmt.Errorf("%s", d.Message)
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		diagnostics.NewLog("", "").Emit("TWCLI001", diagnostics.Span{}, diagnostics.Vars{"path": inputPath})
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	result, compileErr := tinywhale.Compile(string(content), tinywhale.Options{
		Filename: inputPath,
		Optimize: optimize,
	})

	for _, d := range result.Diags.All() {
		severity := colorRed
		if d.Severity == diagnostics.Warning {
			severity = colorYellow
		}
		fmt.Fprintln(os.Stderr, colorize(result.Diags.Render(d), severity, useColor))
	}

	if compileErr != nil {
		return fmt.Errorf("compilation failed with %d error(s)", len(result.Diags.Errors()))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var outPath string
	var data []byte
	if target == "wat" {
		outPath = filepath.Join(outDir, base+".wat")
		data = []byte(result.WatText)
	} else {
		outPath = filepath.Join(outDir, base+".wasm")
		data = result.WasmBytes
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintln(os.Stdout, colorize("wrote "+outPath, colorGray, useColor))
	return nil
}
