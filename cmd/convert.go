package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refcross/refcross/params"
	"github.com/refcross/refcross/pipeline"
	"github.com/refcross/refcross/registry"
)

var (
	inputFile        string
	outputFile       string
	charsetIn        string
	charsetOut       string
	asisFile         string
	corpsFile        string
	noSplitTitle     bool
	singleRefPerFile bool
	noLatex          bool
	noXML            bool
	forceUnicode     bool
)

var errColor = color.New(color.FgRed, color.Bold)

var convertCmd = &cobra.Command{
	Use:   "convert <from> <to>",
	Short: "Convert a reference collection between formats",
	Long: `Convert a reference collection from one dialect to another.

Arguments:
  from    Source format name (e.g. bibtex, ris)
  to      Target format name (e.g. bibtex, ris)

Input defaults to stdin, output defaults to stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file (default stdin)")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVar(&charsetIn, "charset-in", "", "input charset name")
	convertCmd.Flags().StringVar(&charsetOut, "charset-out", "", "output charset name")
	convertCmd.Flags().StringVar(&asisFile, "as", "", "file of author names to pass through verbatim")
	convertCmd.Flags().StringVar(&corpsFile, "cs", "", "file of corporate author names")
	convertCmd.Flags().BoolVar(&noSplitTitle, "nt", false, "do not split titles on \":\"")
	convertCmd.Flags().BoolVarP(&singleRefPerFile, "single", "s", false, "write one reference per output file")
	convertCmd.Flags().BoolVar(&noLatex, "nl", false, "do not translate LaTeX escapes")
	convertCmd.Flags().BoolVar(&noXML, "nx", false, "do not translate XML entities")
	convertCmd.Flags().BoolVar(&forceUnicode, "un", false, "force Unicode input/output, ignoring declared charsets")
}

func runConvert(cmd *cobra.Command, args []string) error {
	fromName, toName := args[0], args[1]

	fromDriver, ok := registry.Get(fromName)
	if !ok {
		return fmt.Errorf("unknown input format %q", fromName)
	}
	toDriver, ok := registry.Get(toName)
	if !ok {
		return fmt.Errorf("unknown output format %q", toName)
	}

	p := params.New("refcross")
	p.SplitTitleOnColon = !noSplitTitle
	p.SingleRefPerOutputFile = singleRefPerFile
	p.LatexIn, p.LatexOut = !noLatex, !noLatex
	p.XMLIn = !noXML
	if !noXML {
		p.XMLOut = params.XMLOutEntities
	}
	if forceUnicode {
		p.UTF8In, p.UTF8Out = true, true
	}
	if charsetIn != "" {
		p.SetCharsetIn(params.CharsetNamed, charsetIn, params.SourceUser)
	}
	if charsetOut != "" {
		p.SetCharsetOut(params.CharsetNamed, charsetOut, params.SourceUser)
	}
	if asisFile != "" {
		if err := p.ReadAsisFile(asisFile); err != nil {
			return err
		}
	}
	if corpsFile != "" {
		if err := p.ReadCorpsFile(corpsFile); err != nil {
			return err
		}
	}

	in, err := openInput(inputFile)
	if err != nil {
		return fmt.Errorf("refcross: opening input: %w", err)
	}
	defer in.Close()

	engine := pipeline.New(fromDriver, p)
	batch, err := engine.ReadAll(in, inputFile)
	if err != nil {
		errColor.Fprintf(os.Stderr, "refcross: %v\n", err)
		return err
	}

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		return fmt.Errorf("refcross: opening output: %w", err)
	}
	defer closeOut()

	writeEngine := pipeline.New(toDriver, p)
	var openPerRef func(string) (io.WriteCloser, error)
	if p.SingleRefPerOutputFile {
		openPerRef = perRefOpener(outputFile)
	}
	if err := writeEngine.WriteAll(out, batch, openPerRef); err != nil {
		errColor.Fprintf(os.Stderr, "refcross: %v\n", err)
		return err
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// perRefOpener allocates one output file per reference, deriving each
// filename by appending "_<refnum>" to base (or to "ref" when base is
// empty); base's extension, if any, stays in front of the suffix.
func perRefOpener(base string) func(string) (io.WriteCloser, error) {
	return func(refnum string) (io.WriteCloser, error) {
		name := base
		if name == "" {
			name = "ref"
		}
		path := fmt.Sprintf("%s_%s", name, refnum)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
