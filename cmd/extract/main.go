// Command extract runs the field extraction pipeline offline: given a
// document image and a JSON file of detections (as produced by the
// detection sidecar), it OCRs each region with the local Tesseract install
// and prints the record plus the detection audit. Useful for debugging
// normalization without the sidecar running.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/docuscan/aadhaarkit/detect"
	"github.com/docuscan/aadhaarkit/extract"
	"github.com/docuscan/aadhaarkit/ocr/tesseract"
)

type options struct {
	imagePath      string
	detectionsPath string
	margin         int
	concurrency    int
	languages      []string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: extract [flags] <image>\n")
		flag.PrintDefaults()
	}
	detections := flag.String("detections", "", "JSON file with detector output (required)")
	margin := flag.Int("margin", extract.DefaultMargin, "Crop padding in pixels")
	concurrency := flag.Int("concurrency", 1, "Regions processed in parallel")
	langs := flag.String("langs", "eng", "Comma-separated OCR languages")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image path")
	}
	if *detections == "" {
		return options{}, fmt.Errorf("-detections is required")
	}
	opts.imagePath = flag.Arg(0)
	opts.detectionsPath = *detections
	opts.margin = *margin
	opts.concurrency = *concurrency
	opts.languages = strings.Split(*langs, ",")
	return opts, nil
}

func run(opts options) error {
	f, err := os.Open(opts.imagePath)
	if err != nil {
		return err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.imagePath, err)
	}

	data, err := os.ReadFile(opts.detectionsPath)
	if err != nil {
		return err
	}
	var detections []detect.Detection
	if err := json.Unmarshal(data, &detections); err != nil {
		return fmt.Errorf("parse detections: %w", err)
	}

	extractor := extract.New(tesseract.NewEngine(),
		extract.WithMargin(opts.margin),
		extract.WithConcurrency(opts.concurrency),
		extract.WithLanguages(opts.languages...),
	)
	record, audit, err := extractor.Extract(context.Background(), img, detections)
	if err != nil {
		return err
	}

	out := struct {
		Data       extract.Record       `json:"data"`
		Detections []extract.AuditEntry `json:"detections"`
	}{Data: record, Detections: audit}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
