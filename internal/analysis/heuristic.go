package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

// Baseline is the expected monthly consumption of a room type
type Baseline struct {
	Keyword string
	KWh     float64
}

// Baselines are matched against room names in this order; the first
// keyword contained in the name wins.
var Baselines = []Baseline{
	{Keyword: "sala", KWh: 80},
	{Keyword: "quarto", KWh: 60},
	{Keyword: "cozinha", KWh: 120},
	{Keyword: "banheiro", KWh: 90},
	{Keyword: "escritório", KWh: 70},
	{Keyword: "lavanderia", KWh: 50},
}

// defaultBaseline applies to rooms that match no keyword
var defaultBaseline = Baselines[0]

const (
	// highSavingsThreshold is the R$ total above which the summary urges action
	highSavingsThreshold = 50.0

	airConditionerSavings = 0.25
	showerSavings         = 0.20

	highPowerWatts = 1000.0
	highPowerHours = 5.0
)

const (
	SummaryNoRooms      = "Nenhum cômodo cadastrado ainda. Adicione cômodos e aparelhos para gerar análise."
	SummaryNoAppliances = "Nenhum aparelho cadastrado ainda. Adicione aparelhos para gerar análise."
	SummaryHighSavings  = "Há grande potencial de economia! Siga as dicas para reduzir seus gastos."
	SummaryControlled   = "Seu consumo está controlado, mas sempre há espaço para melhorias."

	tipWithinExpected = "Consumo dentro do esperado! Continue assim."
)

// ExpectedKWh returns the monthly baseline for a room name
func ExpectedKWh(roomName string) float64 {
	return BaselineFor(roomName).KWh
}

// BaselineFor finds the first baseline whose keyword the room name contains,
// ignoring case
func BaselineFor(roomName string) Baseline {
	name := strings.ToLower(roomName)
	for _, b := range Baselines {
		if strings.Contains(name, b.Keyword) {
			return b
		}
	}
	return defaultBaseline
}

// SummaryFor picks the summary sentence for a total potential saving in R$
func SummaryFor(totalSavings float64) string {
	if totalSavings > highSavingsThreshold {
		return SummaryHighSavings
	}
	return SummaryControlled
}

// Heuristic builds a rule based analysis for rooms with named appliances
func Heuristic(rooms []models.RoomConsumption) models.AnalysisResult {
	result := models.AnalysisResult{
		Rooms:  make([]models.RoomAnalysis, 0, len(rooms)),
		Source: models.SourceHeuristic,
	}

	var total float64
	for _, rc := range rooms {
		ra := analyzeRoom(rc)
		total += ra.SavingsBRL
		result.Rooms = append(result.Rooms, ra)
	}

	result.TotalSavings = consumption.Round2(total)
	result.Summary = SummaryFor(total)
	return result
}

func analyzeRoom(rc models.RoomConsumption) models.RoomAnalysis {
	expected := ExpectedKWh(rc.Room)
	savings := math.Max(0, rc.MonthlyKWh-expected)

	return models.RoomAnalysis{
		Room:         rc.Room,
		RoomID:       rc.RoomID,
		CurrentKWh:   rc.MonthlyKWh,
		CurrentBRL:   rc.MonthlyBRL,
		ExpectedKWh:  expected,
		ExpectedBRL:  consumption.Cost(expected),
		SavingsKWh:   consumption.Round2(savings),
		SavingsBRL:   consumption.Round2(consumption.Cost(savings)),
		PercentAbove: consumption.Round1((rc.MonthlyKWh/expected - 1) * 100),
		Tips:         tipsFor(rc.Appliances),
	}
}

// tipsFor applies every rule to every appliance; rules are independent
func tipsFor(appliances []models.ApplianceSummary) []string {
	tips := []string{}
	for _, a := range appliances {
		name := strings.ToLower(a.Name)

		if strings.Contains(name, "ar condicionado") && a.HoursPerDay > 8 {
			tips = append(tips, fmt.Sprintf("Reduza o uso do %s em 2-3 horas por dia para economizar até R$ %s/mês",
				a.Name, formatBRL(consumption.Cost(a.MonthlyKWh*airConditionerSavings))))
		}
		if strings.Contains(name, "chuveiro") && a.HoursPerDay > 1 {
			tips = append(tips, fmt.Sprintf("Reduza o tempo de banho para 10-15 minutos e economize até R$ %s/mês",
				formatBRL(consumption.Cost(a.MonthlyKWh*showerSavings))))
		}
		if a.PowerWatts > highPowerWatts && a.HoursPerDay > highPowerHours {
			tips = append(tips, fmt.Sprintf("%s consome muito! Considere alternativas mais eficientes", a.Name))
		}
	}

	if len(tips) == 0 {
		tips = append(tips, tipWithinExpected)
	}
	return tips
}

// formatBRL renders a value with two decimals, rounding half away from zero
func formatBRL(v float64) string {
	return fmt.Sprintf("%.2f", consumption.Round2(v))
}
