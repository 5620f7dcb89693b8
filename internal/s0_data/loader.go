package s0_data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/equityrank/internal/contracts"
)

// Issue is one data-quality problem found while loading a MetricSet.
// Issues never abort loading; the affected field is treated as missing.
type Issue struct {
	Ticker string `json:"ticker"`
	Field  string `json:"field"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s.%s=%q: %s", i.Ticker, i.Field, i.Raw, i.Reason)
}

// Issue reasons
const (
	ReasonNotAvailable   = "not available"
	ReasonUnparsable     = "unparsable number"
	ReasonNonFinite      = "non-finite number"
	ReasonUnknownField   = "unknown field"
	ReasonNotString      = "expected string"
	ReasonMissingID      = "missing ticker"
	ReasonDuplicateField = "duplicate field"
)

// notAvailable lists placeholder strings providers use for "no value"
var notAvailable = map[string]bool{
	"":     true,
	"n/a":  true,
	"na":   true,
	"none": true,
	"null": true,
	"-":    true,
	"--":   true,
}

// LoadMetricSetsFile reads a JSON array of company records from path
func LoadMetricSetsFile(path string) ([]contracts.MetricSet, []Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open metrics file: %w", err)
	}
	defer f.Close()

	return LoadMetricSets(f)
}

// LoadMetricSets decodes a JSON array of company records.
// Numbers and numeric strings ("12.5", "1,234", "12.5%") are accepted;
// placeholders, NaN/Inf and unparsable values become nil with an Issue.
// Only malformed JSON is an error.
func LoadMetricSets(r io.Reader) ([]contracts.MetricSet, []Issue, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]interface{}
	if err := dec.Decode(&records); err != nil {
		return nil, nil, fmt.Errorf("decode metrics: %w", err)
	}

	sets := make([]contracts.MetricSet, 0, len(records))
	var issues []Issue
	for i, rec := range records {
		set, recIssues := parseRecord(rec)
		if set.Ticker == "" {
			recIssues = append(recIssues, Issue{Ticker: fmt.Sprintf("#%d", i), Field: "ticker", Reason: ReasonMissingID})
		}
		sets = append(sets, set)
		issues = append(issues, recIssues...)
	}

	return sets, issues, nil
}

// LoadMetricSetsBytes is LoadMetricSets over a byte slice
func LoadMetricSetsBytes(data []byte) ([]contracts.MetricSet, []Issue, error) {
	return LoadMetricSets(bytes.NewReader(data))
}

func parseRecord(rec map[string]interface{}) (contracts.MetricSet, []Issue) {
	var set contracts.MetricSet
	var issues []Issue

	set.Ticker, _ = rec["ticker"].(string)
	set.Ticker = strings.TrimSpace(set.Ticker)
	id := set.Ticker

	// map 순회 순서 고정 (issue 순서 결정적)
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// metric keys match case-insensitively; the first key in sort order wins
	seen := make(map[contracts.Metric]bool)
	for _, key := range keys {
		raw := rec[key]
		switch key {
		case "ticker", "name", "sector":
			if raw == nil {
				continue
			}
			s, ok := raw.(string)
			if !ok {
				issues = append(issues, Issue{Ticker: id, Field: key, Raw: rawString(raw), Reason: ReasonNotString})
				continue
			}
			switch key {
			case "name":
				set.Name = strings.TrimSpace(s)
			case "sector":
				set.Sector = strings.TrimSpace(s)
			}
			continue
		}

		m, ok := contracts.ParseMetric(key)
		if !ok {
			issues = append(issues, Issue{Ticker: id, Field: key, Raw: rawString(raw), Reason: ReasonUnknownField})
			continue
		}
		if seen[m] {
			issues = append(issues, Issue{Ticker: id, Field: key, Raw: rawString(raw), Reason: ReasonDuplicateField})
			continue
		}
		seen[m] = true

		v, reason := parseNumber(raw)
		if reason != "" {
			issues = append(issues, Issue{Ticker: id, Field: string(m), Raw: rawString(raw), Reason: reason})
		}
		set.Set(m, v)
	}

	return set, issues
}

// parseNumber converts a decoded JSON value into a metric value.
// JSON null is a plain missing value and carries no reason.
func parseNumber(raw interface{}) (*float64, string) {
	switch v := raw.(type) {
	case nil:
		return nil, ""
	case json.Number:
		return finiteOrReason(v.Float64())
	case string:
		s := strings.TrimSpace(v)
		if notAvailable[strings.ToLower(s)] {
			return nil, ReasonNotAvailable
		}
		scale := 1.0
		if strings.HasSuffix(s, "%") {
			s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
			scale = 0.01
		}
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		return finiteOrReason(f*scale, err)
	default:
		return nil, ReasonUnparsable
	}
}

func finiteOrReason(f float64, err error) (*float64, string) {
	if err != nil && !isRangeError(err) {
		return nil, ReasonUnparsable
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ReasonNonFinite
	}
	return contracts.Float(f), ""
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

func rawString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
