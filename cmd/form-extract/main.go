package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
	"github.com/formfill/mcp-form-filler/internal/fields"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	maxFileSize  = flag.Int64("maxfilesize", 100*1024*1024, "Maximum PDF file size in bytes")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	result, err := extractFields(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting fields: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Form Extract - Detect fillable fields in flat PDF forms")
	fmt.Println()
	fmt.Println("This tool infers text fields and radio groups from PDFs that carry no")
	fmt.Println("interactive form data, using word positions and bullet glyphs only.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -maxfilesize   Maximum PDF file size in bytes")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  form-extract form.pdf")
	fmt.Println("  form-extract -format json account-opening.pdf")
	fmt.Println()
	fmt.Println("DETECTED FIELD TYPES:")
	fmt.Println("  • Text fields (labels ending in ':', answer written to the right)")
	fmt.Println("  • Radio groups (bullet glyphs with nearby option labels)")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  form-extract [OPTIONS] <pdf_file>")
}

// ExtractionResult is the complete result of a field extraction run.
type ExtractionResult struct {
	FilePath   string         `json:"file_path"`
	Success    bool           `json:"success"`
	PageCount  int            `json:"page_count"`
	FieldCount int            `json:"field_count"`
	Fields     []fields.Field `json:"fields"`
	Error      string         `json:"error,omitempty"`
}

func extractFields(pdfPath string) (*ExtractionResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	result := &ExtractionResult{FilePath: absPath}

	doc, _, err := docmodel.ReadFile(absPath, *maxFileSize)
	if err != nil {
		result.Error = err.Error()
		return result, nil // Don't fail, return error in result
	}

	fs, err := fields.Extract(doc)
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}

	result.Success = true
	result.PageCount = doc.PageCount()
	result.FieldCount = len(fs)
	result.Fields = fs
	return result, nil
}

func outputResults(result *ExtractionResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *ExtractionResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *ExtractionResult) error {
	if !result.Success {
		fmt.Printf("Field extraction failed: %s\n", result.Error)
		return nil
	}

	if result.FieldCount == 0 {
		fmt.Println("No fields detected in the PDF")
		fmt.Println()
		fmt.Println("SUGGESTIONS:")
		fmt.Println("• Labels must end with ':' to be detected as text fields")
		fmt.Println("• Radio groups need bullet glyphs (○ ◯ •) next to option labels")
		fmt.Println("• Scanned image-only PDFs have no extractable words; run OCR first")
		return nil
	}

	fmt.Printf("Detected %d field(s) across %d page(s)\n\n", result.FieldCount, result.PageCount)

	for i, field := range result.Fields {
		fmt.Printf("[%d] %s\n", i+1, field.Label)
		fmt.Printf("    Type: %s\n", field.Kind)
		fmt.Printf("    Page: %d\n", field.Page)
		fmt.Printf("    Question: %s\n", field.Question)

		if field.Kind == fields.KindText {
			fmt.Printf("    Position: (%.1f, %.1f)\n", field.X, field.Y)
		}
		if len(field.Options) > 0 {
			fmt.Printf("    Options: %s\n", strings.Join(field.OptionLabels(), ", "))
		}
		fmt.Println()
	}

	return nil
}
