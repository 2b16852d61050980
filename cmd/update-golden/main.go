package main

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/clems4ever/dialog-ngram/dialog"
	"github.com/clems4ever/dialog-ngram/ngram"
	"github.com/clems4ever/dialog-ngram/report"
)

func main() {
	// Paths are relative to the repository root
	templateFile := "dialog/testdata/template.xml"
	goldenFile := "report/testdata/template_text_golden.txt"

	fmt.Printf("Writing %s...\n", templateFile)
	var xmlBuf bytes.Buffer
	if err := dialog.Template().PrettyPrint(&xmlBuf); err != nil {
		log.Fatalf("Failed to render template: %v", err)
	}
	if err := os.WriteFile(templateFile, xmlBuf.Bytes(), 0644); err != nil {
		log.Fatalf("Failed to write template file: %v. Please run this command from the repository root.", err)
	}

	d, err := dialog.Load(bytes.NewReader(xmlBuf.Bytes()))
	if err != nil {
		log.Fatalf("Failed to load template: %v", err)
	}

	fmt.Println("Counting ngrams...")
	counter := ngram.NewCounter(ngram.Options{})
	counter.Build(d.Texts())

	var out bytes.Buffer
	if err := report.Text(&out, counter, report.Meta{}); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}

	fmt.Printf("Writing to %s...\n", goldenFile)
	if err := os.WriteFile(goldenFile, out.Bytes(), 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	fmt.Println("Done. Golden files updated.")
}
