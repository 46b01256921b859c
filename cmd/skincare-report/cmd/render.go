package cmd

import (
	"fmt"
	"io"
	"os"

	"skincare-report/internal/app"
	"skincare-report/internal/report"

	"github.com/spf13/cobra"
)

var (
	renderInput     string
	renderLayout    string
	renderRecipient string
	renderNoPrint   bool
	renderStdout    bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a report from a YAML or JSON request",
	Example: `  skincare-report render --input request.yaml
  cat request.json | skincare-report render --input - --layout summary --stdout`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "request file, or - for stdin")
	renderCmd.Flags().StringVarP(&renderLayout, "layout", "l", "", "report layout: summary or prescription (default from config)")
	renderCmd.Flags().StringVar(&renderRecipient, "recipient", "", "recipient recorded in the archive")
	renderCmd.Flags().BoolVar(&renderNoPrint, "no-print", false, "do not open the print dialog when the report loads")
	renderCmd.Flags().BoolVar(&renderStdout, "stdout", false, "write the HTML to stdout instead of the file path")
	_ = renderCmd.MarkFlagRequired("input")
}

func runRender(cmd *cobra.Command, _ []string) error {
	req, err := readRequest(cmd, renderInput)
	if err != nil {
		return err
	}

	var layout report.Layout
	if renderLayout != "" {
		layout, err = report.ParseLayout(renderLayout)
		if err != nil {
			return err
		}
	}

	if renderNoPrint {
		cfg.AutoPrint = false
	}

	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := a.Generate(cmd.Context(), app.GenerateInput{
		Request:   req,
		Layout:    layout,
		Recipient: renderRecipient,
	})
	if err != nil {
		return err
	}

	if renderStdout {
		_, err = cmd.OutOrStdout().Write(res.HTML)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Record.FilePath)
	return nil
}

func readRequest(cmd *cobra.Command, path string) (report.Request, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return report.Request{}, fmt.Errorf("failed to open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	req, err := report.DecodeRequest(r)
	if err != nil {
		return report.Request{}, fmt.Errorf("failed to read request %s: %w", path, err)
	}
	return req, nil
}
