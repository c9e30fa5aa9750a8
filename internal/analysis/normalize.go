package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

// FromLLM converts a parsed model response into the canonical result shape
func FromLLM(parsed *LLMAnalysis) models.AnalysisResult {
	result := models.AnalysisResult{
		Rooms:        make([]models.RoomAnalysis, 0, len(parsed.Rooms)),
		TotalSavings: number(parsed.TotalSavings),
		Summary:      text(parsed.Summary),
		Source:       models.SourceLLM,
	}
	for _, r := range parsed.Rooms {
		result.Rooms = append(result.Rooms, models.RoomAnalysis{
			Room:         text(r.Room),
			RoomID:       integer(r.RoomID),
			CurrentKWh:   number(r.CurrentKWh),
			CurrentBRL:   number(r.CurrentBRL),
			ExpectedKWh:  number(r.ExpectedKWh),
			ExpectedBRL:  number(r.ExpectedBRL),
			SavingsKWh:   number(r.SavingsKWh),
			SavingsBRL:   number(r.SavingsBRL),
			PercentAbove: number(r.PercentAbove),
			Tips:         texts(r.Tips),
		})
	}
	return Normalize(result)
}

// Normalize guarantees the result shape: no nil slices, only finite numbers,
// a total equal to the rounded sum of the per-room savings, and a summary.
func Normalize(result models.AnalysisResult) models.AnalysisResult {
	if result.Rooms == nil {
		result.Rooms = []models.RoomAnalysis{}
	}

	var total float64
	for i := range result.Rooms {
		r := &result.Rooms[i]
		r.CurrentKWh = finite(r.CurrentKWh)
		r.CurrentBRL = finite(r.CurrentBRL)
		r.ExpectedKWh = finite(r.ExpectedKWh)
		r.ExpectedBRL = finite(r.ExpectedBRL)
		r.SavingsKWh = finite(r.SavingsKWh)
		r.SavingsBRL = finite(r.SavingsBRL)
		r.PercentAbove = finite(r.PercentAbove)
		if r.Tips == nil {
			r.Tips = []string{}
		}
		total += r.SavingsBRL
	}

	result.TotalSavings = consumption.Round2(total)
	if strings.TrimSpace(result.Summary) == "" {
		result.Summary = SummaryFor(result.TotalSavings)
	}
	return result
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// number accepts JSON numbers and numeric strings; anything else is 0
func number(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return finite(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
		if f, err := strconv.ParseFloat(decimalPoint(s), 64); err == nil {
			return finite(f)
		}
	}
	return 0
}

// decimalPoint rewrites "1.234,5" and "1,234.5" as "1234.5". The last of
// '.' and ',' is the decimal separator; the other groups thousands.
func decimalPoint(s string) string {
	comma := strings.LastIndex(s, ",")
	if comma < 0 {
		return s
	}
	if strings.LastIndex(s, ".") > comma {
		return strings.ReplaceAll(s, ",", "")
	}
	return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
}

// integer accepts whole numbers that fit in an int64; anything else is 0
func integer(raw json.RawMessage) int64 {
	f := number(raw)
	if f != math.Trunc(f) || f < math.MinInt64 || f >= -math.MinInt64 {
		return 0
	}
	return int64(f)
}

// text accepts strings and renders scalars; anything else is empty
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if raw[0] == '{' || raw[0] == '[' {
		return ""
	}
	return string(raw)
}

// texts accepts a list of strings or a single string
func texts(raw json.RawMessage) []string {
	result := []string{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return result
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := text(raw); s != "" {
			result = append(result, s)
		}
		return result
	}
	for _, item := range items {
		if s := text(item); strings.TrimSpace(s) != "" {
			result = append(result, s)
		}
	}
	return result
}
