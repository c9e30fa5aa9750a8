package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/jgoulah/energyadvisor/pkg/models"
)

func TestFromLLM_CoercesFields(t *testing.T) {
	parsed, err := ParseResponse(`{
		"analise_por_comodo": [
			{
				"comodo": "Sala",
				"comodo_id": "12",
				"consumo_atual_kwh": "120,5",
				"consumo_atual_reais": null,
				"expectativa_kwh": "oitenta",
				"expectativa_reais": {"valor": 52},
				"economia_potencial_kwh": 40.5,
				"economia_potencial_reais": "R$ 26.33",
				"percentual_acima": "50.6%",
				"dicas": null
			},
			{
				"comodo": 42,
				"economia_potencial_reais": "NaN",
				"dicas": "Use lâmpadas LED"
			},
			{
				"comodo": "Quarto",
				"economia_potencial_reais": 1e400,
				"dicas": ["ok", "", 3, null]
			}
		],
		"total_economia_potencial_reais": 9999,
		"resumo": ""
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := FromLLM(parsed)
	if result.Source != models.SourceLLM {
		t.Errorf("source = %s", result.Source)
	}
	if len(result.Rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(result.Rooms))
	}

	sala := result.Rooms[0]
	if sala.RoomID != 12 || sala.CurrentKWh != 120.5 || sala.CurrentBRL != 0 {
		t.Errorf("sala = %+v", sala)
	}
	if sala.ExpectedKWh != 0 || sala.ExpectedBRL != 0 {
		t.Errorf("invalid numbers should become 0, got %+v", sala)
	}
	if sala.SavingsBRL != 26.33 || sala.PercentAbove != 50.6 {
		t.Errorf("numeric strings not parsed: %+v", sala)
	}
	if sala.Tips == nil || len(sala.Tips) != 0 {
		t.Errorf("null tips should become an empty list, got %#v", sala.Tips)
	}

	second := result.Rooms[1]
	if second.Room != "42" || second.SavingsBRL != 0 {
		t.Errorf("second = %+v", second)
	}
	if len(second.Tips) != 1 || second.Tips[0] != "Use lâmpadas LED" {
		t.Errorf("single tip string not wrapped: %#v", second.Tips)
	}

	third := result.Rooms[2]
	if third.SavingsBRL != 0 {
		t.Errorf("overflowing number should become 0, got %v", third.SavingsBRL)
	}
	if len(third.Tips) != 2 || third.Tips[0] != "ok" || third.Tips[1] != "3" {
		t.Errorf("tips = %#v", third.Tips)
	}

	if result.TotalSavings != 26.33 {
		t.Errorf("total should be reconciled with rooms, got %v", result.TotalSavings)
	}
	if result.Summary != SummaryControlled {
		t.Errorf("empty summary should be filled, got %q", result.Summary)
	}
}

func TestNormalize_TotalEqualsRoundedSum(t *testing.T) {
	result := Normalize(models.AnalysisResult{
		Rooms: []models.RoomAnalysis{
			{Room: "A", SavingsBRL: 10.111},
			{Room: "B", SavingsBRL: 20.222},
			{Room: "C", SavingsBRL: math.NaN()},
			{Room: "D", SavingsBRL: math.Inf(1)},
		},
		TotalSavings: 1,
		Summary:      "mantido",
	})

	if result.TotalSavings != 30.33 {
		t.Errorf("total = %v, want 30.33", result.TotalSavings)
	}
	if result.Summary != "mantido" {
		t.Errorf("non-empty summary must be kept, got %q", result.Summary)
	}
	for _, r := range result.Rooms {
		if math.IsNaN(r.SavingsBRL) || math.IsInf(r.SavingsBRL, 0) {
			t.Errorf("room %s has non-finite savings", r.Room)
		}
		if r.Tips == nil {
			t.Errorf("room %s has nil tips", r.Room)
		}
	}
}

func TestNormalize_NilRooms(t *testing.T) {
	result := Normalize(models.AnalysisResult{})
	if result.Rooms == nil || len(result.Rooms) != 0 {
		t.Errorf("rooms = %#v", result.Rooms)
	}
	if result.TotalSavings != 0 || result.Summary != SummaryControlled {
		t.Errorf("result = %+v", result)
	}
}

func TestNormalize_HeuristicTotalUnchanged(t *testing.T) {
	rooms := []models.RoomConsumption{
		roomWith(1, "Sala", models.Appliance{Name: "Ar condicionado", PowerWatts: 1100, HoursPerDay: 9}),
		roomWith(2, "Quarto", models.Appliance{Name: "Chuveiro", PowerWatts: 4500, HoursPerDay: 1.5}),
	}
	raw := Heuristic(rooms)
	normalized := Normalize(raw)
	if normalized.TotalSavings != raw.TotalSavings {
		t.Errorf("normalizing changed the heuristic total: %v -> %v", raw.TotalSavings, normalized.TotalSavings)
	}
	if normalized.Summary != raw.Summary {
		t.Errorf("summary changed: %q -> %q", raw.Summary, normalized.Summary)
	}
}

func TestNumber_Separators(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`"120,5"`, 120.5},
		{`"1.234,5"`, 1234.5},
		{`"R$ 1.234.567,89"`, 1234567.89},
		{`"1,234.5"`, 1234.5},
		{`"26.33"`, 26.33},
		{`"12,3,4"`, 0},
		{`1500`, 1500},
	}
	for _, tt := range tests {
		if got := number(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("number(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestInteger_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{`12`, 12},
		{`"7"`, 7},
		{`-3`, -3},
		{`1e30`, 0},
		{`-1e30`, 0},
		{`9.3e18`, 0},
		{`4.5`, 0},
		{`"abc"`, 0},
	}
	for _, tt := range tests {
		if got := integer(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("integer(%s) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFromLLM_NullRoomRejectedBeforeNormalizing(t *testing.T) {
	_, err := ParseResponse(`{"analise_por_comodo": [{"comodo": "Sala", "comodo_id": 1, "economia_potencial_reais": 10}, null]}`)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Reason != ReasonInvalidField {
		t.Fatalf("expected invalid field error, got %v", err)
	}
}
