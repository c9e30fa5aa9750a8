package models

// AnalysisSource records which path produced an AnalysisResult
type AnalysisSource string

const (
	SourceNone      AnalysisSource = "none"
	SourceLLM       AnalysisSource = "llm"
	SourceHeuristic AnalysisSource = "heuristic"
)

// RoomAnalysis is the per-room part of an AnalysisResult
type RoomAnalysis struct {
	Room         string   `json:"comodo"`
	RoomID       int64    `json:"comodo_id"`
	CurrentKWh   float64  `json:"consumo_atual_kwh"`
	CurrentBRL   float64  `json:"consumo_atual_reais"`
	ExpectedKWh  float64  `json:"expectativa_kwh"`
	ExpectedBRL  float64  `json:"expectativa_reais"`
	SavingsKWh   float64  `json:"economia_potencial_kwh"`
	SavingsBRL   float64  `json:"economia_potencial_reais"`
	PercentAbove float64  `json:"percentual_acima"`
	Tips         []string `json:"dicas"`
}

// AnalysisResult is the canonical consumption analysis, whichever path produced it
type AnalysisResult struct {
	Rooms        []RoomAnalysis `json:"analise_por_comodo"`
	TotalSavings float64        `json:"total_economia_potencial_reais"`
	Summary      string         `json:"resumo"`

	Source AnalysisSource `json:"-"`
}
