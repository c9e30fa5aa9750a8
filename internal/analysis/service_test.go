package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jgoulah/energyadvisor/pkg/models"
)

type stubRooms struct {
	rooms []models.Room
	err   error
}

func (s *stubRooms) ListRoomsWithAppliances(ctx context.Context, userID int64) ([]models.Room, error) {
	return s.rooms, s.err
}

type stubGateway struct {
	text    string
	ok      bool
	calls   int
	prompts []string
}

func (g *stubGateway) RequestAnalysis(ctx context.Context, prompt string) (string, bool) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.text, g.ok
}

func sampleRooms() []models.Room {
	return []models.Room{
		{ID: 1, Name: "Sala", Appliances: []models.Appliance{
			{ID: 10, Name: "TV", PowerWatts: 150, HoursPerDay: 6},
		}},
		{ID: 2, Name: "Quarto", Appliances: []models.Appliance{
			{ID: 20, Name: "Ar Condicionado", PowerWatts: 1500, HoursPerDay: 10},
		}},
		{ID: 3, Name: "Varanda"},
	}
}

func TestGetConsumptionAnalysis_NoRooms(t *testing.T) {
	gw := &stubGateway{ok: true, text: validResponse}
	svc := NewService(&stubRooms{}, gw, nil)

	result, err := svc.GetConsumptionAnalysis(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != SummaryNoRooms || result.TotalSavings != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Rooms == nil || len(result.Rooms) != 0 {
		t.Errorf("rooms = %#v", result.Rooms)
	}
	if result.Source != models.SourceNone {
		t.Errorf("source = %s", result.Source)
	}
	if gw.calls != 0 {
		t.Errorf("gateway should not be called, got %d calls", gw.calls)
	}
}

func TestGetConsumptionAnalysis_NoNamedAppliances(t *testing.T) {
	rooms := []models.Room{
		{ID: 1, Name: "Sala"},
		{ID: 2, Name: "Quarto", Appliances: []models.Appliance{{ID: 5, Name: "  ", PowerWatts: 100, HoursPerDay: 2}}},
	}
	gw := &stubGateway{ok: true, text: validResponse}
	svc := NewService(&stubRooms{rooms: rooms}, gw, nil)

	result, err := svc.GetConsumptionAnalysis(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != SummaryNoAppliances || len(result.Rooms) != 0 || result.TotalSavings != 0 {
		t.Errorf("result = %+v", result)
	}
	if gw.calls != 0 {
		t.Errorf("gateway should not be called, got %d calls", gw.calls)
	}
}

func TestGetConsumptionAnalysis_StoreError(t *testing.T) {
	storeErr := errors.New("disk on fire")
	svc := NewService(&stubRooms{err: storeErr}, nil, nil)

	_, err := svc.GetConsumptionAnalysis(context.Background(), 9)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestGetConsumptionAnalysis_ModelUnavailable(t *testing.T) {
	for name, gw := range map[string]Gateway{
		"nil gateway": nil,
		"disabled":    &stubGateway{ok: false},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(&stubRooms{rooms: sampleRooms()}, gw, nil)
			result, err := svc.GetConsumptionAnalysis(context.Background(), 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Source != models.SourceHeuristic {
				t.Errorf("source = %s", result.Source)
			}
			if len(result.Rooms) != 2 {
				t.Fatalf("expected the two rooms with appliances, got %d", len(result.Rooms))
			}
			if result.Rooms[0].Room != "Sala" || result.Rooms[1].Room != "Quarto" {
				t.Errorf("room order = %s, %s", result.Rooms[0].Room, result.Rooms[1].Room)
			}
			if result.TotalSavings != 253.5 {
				t.Errorf("total = %v, want 253.5", result.TotalSavings)
			}
		})
	}
}

func TestGetConsumptionAnalysis_ModelResponse(t *testing.T) {
	gw := &stubGateway{ok: true, text: "```json\n" + validResponse + "\n```"}
	svc := NewService(&stubRooms{rooms: sampleRooms()}, gw, nil)

	result, err := svc.GetConsumptionAnalysis(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != models.SourceLLM {
		t.Fatalf("source = %s", result.Source)
	}
	if len(result.Rooms) != 1 || result.Rooms[0].Room != "Sala" {
		t.Fatalf("rooms = %+v", result.Rooms)
	}
	if result.TotalSavings != 26.33 || result.Summary != "Consumo levemente acima do esperado." {
		t.Errorf("result = %+v", result)
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d", gw.calls)
	}
}

func TestGetConsumptionAnalysis_BadModelResponseFallsBack(t *testing.T) {
	tests := map[string]string{
		"prose":         "Claro! Aqui vai minha análise.",
		"missing rooms": `{"total_economia_potencial_reais": 10, "resumo": "ok"}`,
		"rooms object":  `{"analise_por_comodo": {"comodo": "Sala"}}`,
		"array":         `[1, 2, 3]`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			gw := &stubGateway{ok: true, text: text}
			svc := NewService(&stubRooms{rooms: sampleRooms()}, gw, nil)

			result, err := svc.GetConsumptionAnalysis(context.Background(), 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Source != models.SourceHeuristic {
				t.Errorf("source = %s", result.Source)
			}
			if len(result.Rooms) != 2 {
				t.Errorf("rooms = %d", len(result.Rooms))
			}
		})
	}
}

func TestGetConsumptionAnalysis_PromptCoversNamedRoomsOnly(t *testing.T) {
	gw := &stubGateway{ok: false}
	svc := NewService(&stubRooms{rooms: sampleRooms()}, gw, nil)

	if _, err := svc.GetConsumptionAnalysis(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(gw.prompts))
	}
	prompt := gw.prompts[0]
	if !strings.Contains(prompt, `"Ar Condicionado"`) || !strings.Contains(prompt, `"TV"`) {
		t.Errorf("prompt misses appliances:\n%s", prompt)
	}
	if strings.Contains(prompt, "Varanda") {
		t.Errorf("room without appliances leaked into the prompt")
	}
	if !strings.Contains(prompt, `"analise_por_comodo"`) {
		t.Errorf("prompt misses the output layout")
	}
}

func TestGetConsumptionAnalysis_Idempotent(t *testing.T) {
	svc := NewService(&stubRooms{rooms: sampleRooms()}, nil, nil)

	a, err := svc.GetConsumptionAnalysis(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.GetConsumptionAnalysis(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.TotalSavings != b.TotalSavings || a.Summary != b.Summary || len(a.Rooms) != len(b.Rooms) {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
	for i := range a.Rooms {
		if a.Rooms[i].SavingsBRL != b.Rooms[i].SavingsBRL {
			t.Errorf("room %d differs", i)
		}
	}
}
