package collector

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"SignalSentinel/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// CSVSource reads bars from a Date,Open,High,Low,Close,Volume file.
// The file is re-read on every Load.
type CSVSource struct {
	Path   string
	Symbol string
}

// NewCSVSource creates a source for the file at path.
func NewCSVSource(path, symbol string) *CSVSource {
	return &CSVSource{Path: path, Symbol: symbol}
}

func (s *CSVSource) Name() string { return "csv:" + s.Path }

// Load parses the file and returns its bars sorted ascending by date.
func (s *CSVSource) Load(ctx context.Context) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.Path)
		}
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	bars, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return bars, nil
}

type columns struct {
	date, open, high, low, close, volume int
}

func headerColumns(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1, -1, -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "datetime", "timestamp":
			cols.date = i
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		case "volume":
			cols.volume = i
		}
	}
	missing := []string{}
	for name, idx := range map[string]int{"Date": cols.date, "Open": cols.open, "High": cols.high, "Low": cols.low, "Close": cols.close} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return cols, fmt.Errorf("header missing columns %s", strings.Join(missing, ","))
	}
	return cols, nil
}

// ParseCSV decodes a price table. UTF-8 and UTF-16 byte order marks are honoured.
// Rows with null or empty prices are skipped.
func ParseCSV(r io.Reader) ([]model.OHLCV, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(bufio.NewReader(decoded))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []model.OHLCV
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		bar, ok, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			bars = append(bars, bar)
		}
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func parseRow(rec []string, cols columns) (model.OHLCV, bool, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	ts, err := parseDate(field(cols.date))
	if err != nil {
		return model.OHLCV{}, false, err
	}

	var prices [4]float64
	for i, idx := range []int{cols.open, cols.high, cols.low, cols.close} {
		raw := field(idx)
		if raw == "" || strings.EqualFold(raw, "null") {
			return model.OHLCV{}, false, nil
		}
		v, err := parseNumber("price", raw)
		if err != nil {
			return model.OHLCV{}, false, err
		}
		prices[i] = v
	}

	bar := model.OHLCV{Time: ts, Open: prices[0], High: prices[1], Low: prices[2], Close: prices[3]}
	if raw := field(cols.volume); raw != "" && !strings.EqualFold(raw, "null") {
		v, err := parseNumber("volume", raw)
		if err != nil {
			return model.OHLCV{}, false, err
		}
		bar.Volume = v
	}
	return bar, true, nil
}

// parseNumber rejects NaN and infinities, which ParseFloat accepts.
func parseNumber(kind, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", kind, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", kind, raw)
	}
	return v, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// WriteCSV replaces the file at path with bars. The new content is written to
// a temporary file in the same directory and renamed into place.
func WriteCSV(path string, bars []model.OHLCV) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prices-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	_ = w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"})
	for _, b := range bars {
		_ = w.Write([]string{
			b.Time.UTC().Format("2006-01-02"),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
