package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendview-dev/spendview/internal/model"
)

// Parser converts a bank CSV export into BankRecords. The int is the
// number of rows skipped for unusable data, so one bad row never fails
// a file.
type Parser interface {
	Parse(r io.Reader) ([]model.BankRecord, int, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.parsers))
	for key := range r.parsers {
		formats = append(formats, key)
	}
	sort.Strings(formats)
	return formats
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&AmexParser{})
	r.Register(&AppleCardParser{})
	r.Register(&CheckingParser{})
	return r
}

// processedDir is where imported files are moved after a directory run.
const processedDir = "processed"

// Scan returns the CSV files directly inside dir. A missing directory
// yields no files rather than an error.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/ so the next
// directory run does not import it again.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(filepath.Join(dir, fileName), filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Date layouts seen across the supported bank exports, most common
// first.
var dateLayouts = []string{"01/02/2006", "2006-01-02", "01-02-2006", "02/01/2006"}

// parseFlexibleDate tries each known layout. A row with an
// unrecognized date imports with a zero date rather than failing the
// whole file.
func parseFlexibleDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var amountCleaner = strings.NewReplacer("$", "", ",", "", `"`, "")

// cleanAmount parses a currency cell, tolerating $ signs, thousands
// separators, and stray quotes. Empty or unparseable cells become zero.
func cleanAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(amountCleaner.Replace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var merchantIDTail = regexp.MustCompile(`\s+\d{5,}.*`)

// extractMerchant pulls a merchant name out of a raw description: the
// part before the first double space, with trailing reference numbers
// removed, capped at 100 characters.
func extractMerchant(desc string) string {
	m := desc
	if i := strings.Index(m, "  "); i >= 0 {
		m = m[:i]
	}
	m = merchantIDTail.ReplaceAllString(m, "")
	m = strings.TrimSpace(m)
	if len(m) > 100 {
		m = m[:100]
	}
	return m
}

// indexOf returns the position of a named column in a header row, or
// -1 when absent.
func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
