// Command docscan runs the OCR pipeline on a local file and prints the
// report lines.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/markdave123-py/docscan/internal/app"
	"github.com/markdave123-py/docscan/internal/config"
	"github.com/markdave123-py/docscan/internal/core/recognizer/pdftext"
	"github.com/markdave123-py/docscan/internal/models"
	"github.com/markdave123-py/docscan/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	var (
		file       = flag.StringP("file", "f", "", "image or PDF to read")
		lang       = flag.StringP("lang", "l", cfg.OCRLanguage, "OCR language: por, eng, spa or auto")
		docType    = flag.StringP("type", "t", "generic", "document type hint: rg, cpf, cnh or generic")
		enhanced   = flag.Bool("enhanced", cfg.OCREnhanced, "run every recognition preset")
		confidence = flag.Float64("confidence", 0, "drop lines below this confidence (0-100)")
		engine     = flag.String("engine", cfg.OCREngine, "OCR engine: tesseract or gemini")
		raw        = flag.Bool("raw", false, "print the JSON response instead of plain lines")
		verbose    = flag.BoolP("verbose", "v", false, "debug logging")
		version    = flag.Bool("version", false, "print the version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docscan --file <path> [flags]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println("docscan", app.Version)
		return
	}
	if *file == "" && flag.NArg() > 0 {
		*file = flag.Arg(0)
	}
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(cfg, *engine, *file, models.OCRSettings{
		Language:            *lang,
		DocumentType:        *docType,
		Enhanced:            *enhanced,
		ConfidenceThreshold: *confidence,
	}, *raw); err != nil {
		fmt.Fprintln(os.Stderr, "docscan:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, engine, path string, settings models.OCRSettings, asJSON bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg.OCREngine = strings.ToLower(engine)
	rec, closeRec, err := app.NewRecognizer(ctx, cfg)
	if err != nil {
		return err
	}
	if closeRec != nil {
		defer closeRec()
	}

	svc := services.NewOCRService(rec, pdftext.NewExtractor(), nil, nil, nil, cfg.MaxImageSide)
	res, err := svc.Scan(ctx, services.ScanInput{
		FileName: filepath.Base(path),
		Data:     data,
		Settings: settings,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models.OCRResponse{
			Text:             res.Lines,
			Status:           "success",
			ProcessingTimeMS: res.Elapsed.Milliseconds(),
			LanguageDetected: res.Language,
			DocumentType:     res.DocumentType,
		})
	}
	for _, line := range res.Lines {
		fmt.Println(line)
	}
	return nil
}
