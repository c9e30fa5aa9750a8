package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

// outputSchema is the literal JSON layout the model is asked to follow
const outputSchema = `{
  "analise_por_comodo": [
    {
      "comodo": "nome do cômodo",
      "comodo_id": id,
      "consumo_atual_kwh": valor,
      "consumo_atual_reais": valor,
      "expectativa_kwh": valor,
      "expectativa_reais": valor,
      "economia_potencial_kwh": valor,
      "economia_potencial_reais": valor,
      "percentual_acima": valor,
      "dicas": ["dica 1", "dica 2", "dica 3"]
    }
  ],
  "total_economia_potencial_reais": valor,
  "resumo": "resumo geral em uma frase"
}`

// BuildPrompt renders the analysis instruction for rooms that have at least
// one named appliance. Callers must not pass an empty slice.
func BuildPrompt(rooms []models.RoomConsumption) (string, error) {
	data, err := json.MarshalIndent(rooms, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding rooms: %w", err)
	}

	var b strings.Builder
	fmt.Fprintln(&b, "Você é um especialista em eficiência energética residencial (energy-efficiency expert).")
	fmt.Fprintln(&b, "Analise o consumo de energia abaixo e forneça uma análise detalhada.")
	fmt.Fprintf(&b, "A tarifa é de R$ %.2f por kWh e o mês tem %d dias.\n", consumption.TariffRate, consumption.DaysPerMonth)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "DADOS DO CONSUMO:")
	fmt.Fprintln(&b, string(data))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Para cada cômodo, forneça:")
	fmt.Fprintln(&b, "1. Uma expectativa realista de consumo mensal em kWh, considerando o tipo de cômodo e os aparelhos")
	fmt.Fprintln(&b, "2. Se o consumo está acima, dentro ou abaixo da expectativa")
	fmt.Fprintln(&b, "3. De 2 a 3 dicas específicas e práticas para economizar energia")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Responda APENAS com JSON válido, sem markdown e sem blocos ```json, seguindo exatamente esta estrutura:")
	fmt.Fprint(&b, outputSchema)
	return b.String(), nil
}
