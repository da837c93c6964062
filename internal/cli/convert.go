package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/aozora/internal/parser"
	"github.com/dgallion1/aozora/internal/pipeline"
	"github.com/dgallion1/aozora/internal/render"
	"github.com/dgallion1/aozora/internal/ruby"
)

var (
	outputPath     string
	title          string
	cssFiles       []string
	gaijiDir       string
	noStrip        bool
	rubyPolicy     string
	midashiAnchors bool
	metadata       bool
)

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Convert to plain text",
	Long: `Strips all markup and writes the plain text. Ruby readings are dropped,
gaiji are replaced by their character or 〓, and only non-empty lines are kept.
Reads standard input when no file or "-" is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args, pipeline.FormatPlain)
	},
}

var htmlCmd = &cobra.Command{
	Use:   "html [file]",
	Short: "Convert to XHTML",
	Long: `Writes an XHTML 1.1 document in the layout Aozora Bunko publishes.
Reads standard input when no file or "-" is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args, pipeline.FormatHTML)
	},
}

func init() {
	for _, c := range []*cobra.Command{textCmd, htmlCmd} {
		c.Flags().StringVarP(&outputPath, "output", "o", "", "write to this file instead of standard output")
		c.Flags().BoolVar(&noStrip, "no-strip", false, "keep the title block and colophon in the body")
		c.Flags().StringVar(&rubyPolicy, "ruby-policy", ruby.KanjiKatakana.String(), "implicit ruby base rule: kanji-katakana, kanji or char-class")
		rootCmd.AddCommand(c)
	}
	htmlCmd.Flags().StringVar(&title, "title", "", "document <title>; defaults to the header")
	htmlCmd.Flags().StringArrayVar(&cssFiles, "css", nil, "stylesheet to link; repeatable")
	htmlCmd.Flags().StringVar(&gaijiDir, "gaiji-dir", "", "render gaiji as images from this directory")
	htmlCmd.Flags().BoolVar(&midashiAnchors, "midashi-anchors", false, "add anchors to headings")
	htmlCmd.Flags().BoolVar(&metadata, "metadata", true, "write the title and author block above the body")
}

func runConvert(cmd *cobra.Command, args []string, format pipeline.Format) error {
	log := logger(cmd)

	policy, err := ruby.ParsePolicy(rubyPolicy)
	if err != nil {
		return err
	}

	name, data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	p, err := parser.ForFile(name, parser.Options{RubyPolicy: policy, KeepHeader: noStrip})
	if err != nil {
		return err
	}
	res, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return fmt.Errorf("convert %s: %w", name, err)
	}
	log.Debug("decoded input", "file", name, "encoding", res.Encoding)
	for _, w := range res.Warnings {
		log.Debug("markup warning", "file", name, "line", w.Line, "kind", w.Kind, "detail", w.Detail)
	}
	if len(res.Warnings) > 0 && !verbose {
		log.Info("markup warnings", "file", name, "count", len(res.Warnings))
	}

	out := pipeline.Render(res, format, render.Options{
		Title:          title,
		CSSFiles:       cssFiles,
		GaijiImageDir:  gaijiDir,
		MidashiAnchors: midashiAnchors,
		Metadata:       metadata,
	})
	if format == pipeline.FormatPlain && len(out) > 0 {
		out = append(out, '\n')
	}

	if outputPath == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readInput returns the input bytes and the name used to pick a parser.
// Standard input is always treated as text.
func readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "stdin.txt", data, nil
	}
	if !parser.IsSupportedExtension(args[0]) {
		return "", nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(args[0]))
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	return args[0], data, nil
}
