package analysis

import (
	"strings"
	"testing"

	"github.com/jgoulah/energyadvisor/pkg/models"
)

func TestBuildPrompt(t *testing.T) {
	rooms := []models.RoomConsumption{
		roomWith(4, "Cozinha", models.Appliance{Name: "Geladeira", PowerWatts: 150, HoursPerDay: 24}),
	}

	prompt, err := BuildPrompt(rooms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"energy-efficiency expert",
		"R$ 0.65 por kWh",
		"30 dias",
		"DADOS DO CONSUMO:",
		`"comodo": "Cozinha"`,
		`"comodo_id": 4`,
		`"nome": "Geladeira"`,
		`"potencia": 150`,
		"Responda APENAS com JSON válido",
		outputSchema,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	rooms := []models.RoomConsumption{
		roomWith(1, "Sala", models.Appliance{Name: "TV", PowerWatts: 120, HoursPerDay: 5}),
		roomWith(2, "Quarto", models.Appliance{Name: "Ventilador", PowerWatts: 80, HoursPerDay: 8}),
	}
	a, err := BuildPrompt(rooms)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildPrompt(rooms)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("prompt differs between runs")
	}
	if strings.Index(a, `"Sala"`) > strings.Index(a, `"Quarto"`) {
		t.Error("rooms should keep their input order")
	}
}
