package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kyleranous/docker-mocker/fixture"
	"github.com/kyleranous/docker-mocker/internal/generic"
	"github.com/kyleranous/docker-mocker/validate"
)

type keyedIssues struct {
	Key    string           `json:"key" yaml:"key"`
	Issues []validate.Issue `json:"issues" yaml:"issues"`
}

type collectionReport struct {
	Valid    bool          `json:"valid" yaml:"valid"`
	Checked  int           `json:"checked" yaml:"checked"`
	Failed   int           `json:"failed" yaml:"failed"`
	Errors   []keyedIssues `json:"errors" yaml:"errors"`
	Warnings []keyedIssues `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type report struct {
	File        string           `json:"file" yaml:"file"`
	Fingerprint string           `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Swarms      collectionReport `json:"swarms" yaml:"swarms"`
	Nodes       collectionReport `json:"nodes" yaml:"nodes"`
	Codes       map[string]int   `json:"codes,omitempty" yaml:"codes,omitempty"`
}

func (r *report) failed() bool {
	return !r.Swarms.Valid || !r.Nodes.Valid
}

func buildReport(path string, store *fixture.Store, verbose bool) *report {
	swarms := validate.Swarms(store.Swarms)
	nodes := validate.Nodes(store.Nodes, store.Swarms)

	r := &report{
		File: path,
		Swarms: collectionReport{
			Valid:   swarms.Failed() == 0,
			Checked: swarms.Checked,
			Failed:  swarms.Failed(),
			Errors:  []keyedIssues{},
		},
		Nodes: collectionReport{
			Valid:   nodes.Failed() == 0,
			Checked: nodes.Checked(),
			Failed:  nodes.Failed(),
			Errors:  []keyedIssues{},
		},
	}

	codes := make(map[string]int)

	for _, key := range swarms.Keys() {
		issues := swarms.Issues(key)
		r.Swarms.Errors = append(r.Swarms.Errors, keyedIssues{Key: key, Issues: issues})
		countCodes(codes, issues)
	}

	for _, key := range nodes.Keys() {
		res, _ := nodes.Result(key)

		if len(res.Errors) > 0 {
			r.Nodes.Errors = append(r.Nodes.Errors, keyedIssues{Key: key, Issues: res.Errors})
			countCodes(codes, res.Errors)
		}

		if len(res.Warnings) > 0 {
			r.Nodes.Warnings = append(r.Nodes.Warnings, keyedIssues{Key: key, Issues: res.Warnings})
			countCodes(codes, res.Warnings)
		}
	}

	if verbose {
		r.Fingerprint = fmt.Sprintf("%016x", store.Fingerprint())

		if len(codes) > 0 {
			r.Codes = codes
		}
	}

	return r
}

func countCodes(codes map[string]int, issues []validate.Issue) {
	for _, is := range issues {
		codes[is.Code]++
	}
}

func writeReport(w io.Writer, r *report, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(r)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(r); err != nil {
			return err
		}

		return enc.Close()
	default:
		writeText(w, r)
		return nil
	}
}

func writeText(w io.Writer, r *report) {
	fmt.Fprintf(w, "File: %s\n", r.File)

	if r.Fingerprint != "" {
		fmt.Fprintf(w, "Fingerprint: %s\n", r.Fingerprint)
	}

	writeCollection(w, "Swarms", &r.Swarms)
	writeCollection(w, "Nodes", &r.Nodes)

	if len(r.Nodes.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		writeIssues(w, r.Nodes.Warnings)
	}

	if len(r.Codes) > 0 {
		fmt.Fprintf(w, "\nIssue codes:\n")

		for _, code := range generic.SortedKeys(r.Codes) {
			fmt.Fprintf(w, "  %s: %d\n", code, r.Codes[code])
		}
	}
}

func writeCollection(w io.Writer, name string, c *collectionReport) {
	status := "Validation Successful"
	if !c.Valid {
		status = "Validation Failed"
	}

	fmt.Fprintf(w, "\n%s: %s\n", name, status)
	fmt.Fprintf(w, "  checked: %d, failed: %d (%.1f%%)\n", c.Checked, c.Failed, percent(c.Failed, c.Checked))

	writeIssues(w, c.Errors)
}

func writeIssues(w io.Writer, list []keyedIssues) {
	for _, ki := range list {
		fmt.Fprintf(w, "  %s:\n", ki.Key)

		for _, is := range ki.Issues {
			fmt.Fprintf(w, "    %s: %s\n", is.Code, is.Message)
		}
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(part) / float64(total) * 100
}
