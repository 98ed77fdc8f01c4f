package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/basket/internal/common"
	"github.com/Veraticus/basket/internal/engine"
)

// Format names an output encoding.
type Format string

const (
	// FormatText is the pipe-delimited layout.
	FormatText Format = "txt"
	// FormatJSON writes indented JSON documents.
	FormatJSON Format = "json"
	// FormatYAML writes YAML documents.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a configured name into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "", "text":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", common.WrapInvalidParameterError("output.format", name,
			"must be txt, json or yaml", common.ErrInvalidConfig)
	}
}

// Paths are the files written for one run.
type Paths struct {
	Items string
	Rules string
	Info  string
}

// Writer writes the three report files of a run into a directory.
type Writer struct {
	dir    string
	suffix string
	format Format
}

// NewWriter creates a writer. suffix is appended to each base name, so
// suffix "03" yields items03.txt, rules03.txt, and info03.txt.
func NewWriter(dir string, format Format, suffix string) *Writer {
	if format == "" {
		format = FormatText
	}
	return &Writer{dir: dir, format: format, suffix: suffix}
}

// Paths returns the file names the writer uses.
func (w *Writer) Paths() Paths {
	name := func(base string) string {
		return filepath.Join(w.dir, base+w.suffix+"."+string(w.format))
	}
	return Paths{
		Items: name("items"),
		Rules: name("rules"),
		Info:  name("info"),
	}
}

// WriteAll writes the items, rules, and info reports.
func (w *Writer) WriteAll(run *engine.Run) (Paths, error) {
	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return Paths{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := w.Paths()
	files := []struct {
		write func(io.Writer, *engine.Run, Format) error
		path  string
	}{
		{path: paths.Items, write: WriteItems},
		{path: paths.Rules, write: WriteRules},
		{path: paths.Info, write: WriteInfo},
	}

	for _, f := range files {
		if err := writeFile(f.path, func(out io.Writer) error {
			return f.write(out, run, w.format)
		}); err != nil {
			return Paths{}, err
		}
	}

	common.LogInfo("Wrote reports", common.Fields{
		"items":  paths.Items,
		"rules":  paths.Rules,
		"info":   paths.Info,
		"format": string(w.format),
	})
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	buf := bufio.NewWriter(f)
	if err := write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := buf.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteItems writes one line or record per frequent itemset.
func WriteItems(w io.Writer, run *engine.Run, format Format) error {
	records := Itemsets(run)
	if format != FormatText {
		return encode(w, format, records)
	}

	p := run.Config.Precision
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s|%d|%.*f\n", strings.Join(r.Items, " "), r.SupportCount, p, r.Support); err != nil {
			return err
		}
	}
	return nil
}

// WriteRules writes one line or record per rule.
func WriteRules(w io.Writer, run *engine.Run, format Format) error {
	records := Rules(run)
	if format != FormatText {
		return encode(w, format, records)
	}

	p := run.Config.Precision
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s|%s|%d|%.*f|%.*f|%.*f\n",
			strings.Join(r.Antecedent, " "),
			strings.Join(r.Consequent, " "),
			r.SupportCount,
			p, r.Support,
			p, r.Confidence,
			p, r.Lift); err != nil {
			return err
		}
	}
	return nil
}

// WriteInfo writes the run summary.
func WriteInfo(w io.Writer, run *engine.Run, format Format) error {
	s := Summarize(run)
	if format != FormatText {
		return encode(w, format, s)
	}

	p := run.Config.Precision
	lines := []string{
		fmt.Sprintf("minsuppc: %d", s.MinSupport),
		fmt.Sprintf("minconf: %s", FormatFloat(s.MinConfidence)),
		fmt.Sprintf("input file: %s", s.Input),
		fmt.Sprintf("Number of items: %d", s.Items),
		fmt.Sprintf("Number of transactions: %d", s.Transactions),
		fmt.Sprintf("The length of the longest transaction: %d", s.LongestTransaction),
	}
	for _, lc := range s.LevelCounts {
		lines = append(lines, fmt.Sprintf("Number of frequent %d-itemsets: %d", lc.Size, lc.Count))
	}
	lines = append(lines,
		fmt.Sprintf("Total number of frequent itemsets: %d", s.FrequentItemsets),
		fmt.Sprintf("Number of high-confidence rules: %d", s.Rules),
		fmt.Sprintf("The rules with the highest confidence (%s):", FormatFloat(s.HighestConfidence)),
	)
	for _, r := range s.HighestConfidenceRules {
		lines = append(lines, fmt.Sprintf("%s -> %s | Confidence: %s",
			strings.Join(r.Antecedent, ", "), strings.Join(r.Consequent, ", "), FormatFloat(r.Confidence)))
	}
	lines = append(lines, fmt.Sprintf("The rules with the highest lift (%.*f):", p, s.HighestLift))
	for _, r := range s.HighestLiftRules {
		lines = append(lines, fmt.Sprintf("%s -> %s | Lift: %.*f",
			strings.Join(r.Antecedent, ", "), strings.Join(r.Consequent, ", "), p, r.Lift))
	}
	lines = append(lines,
		fmt.Sprintf("Time in seconds to find the frequent itemsets: %.4f", s.ItemsetsSeconds),
		fmt.Sprintf("Time in seconds to find the confident rules: %.4f", s.RulesSeconds),
	)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: report format %q", common.ErrInvalidConfig, format)
	}
}

// FormatFloat prints the shortest representation that keeps a decimal point,
// so 1 prints as 1.0 and 0.667 as 0.667.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
