package models

// ApplianceSummary is the per-appliance record sent to the LLM
type ApplianceSummary struct {
	Name        string  `json:"nome"`
	PowerWatts  float64 `json:"potencia"`
	HoursPerDay float64 `json:"horas"`
	MonthlyKWh  float64 `json:"consumo_mensal"`
}

// RoomConsumption is built fresh for every analysis request and never stored
type RoomConsumption struct {
	RoomID     int64              `json:"comodo_id"`
	Room       string             `json:"comodo"`
	MonthlyKWh float64            `json:"consumo_kwh"`
	MonthlyBRL float64            `json:"custo_reais"`
	Appliances []ApplianceSummary `json:"aparelhos"`
}

// CategoryStats totals appliances of one category
type CategoryStats struct {
	Category   Category `json:"categoria"`
	Count      int      `json:"total_aparelhos"`
	MonthlyKWh float64  `json:"consumo_mensal_kwh"`
	MonthlyBRL float64  `json:"custo_mensal_reais"`
}

// ApplianceConsumption is one row of the household consumption listing
type ApplianceConsumption struct {
	Room        string   `json:"comodo"`
	Appliance   string   `json:"aparelho"`
	ApplianceID int64    `json:"aparelho_id"`
	Category    Category `json:"categoria"`
	PowerWatts  float64  `json:"potencia_watts"`
	HoursPerDay float64  `json:"horas_uso_dia"`
	DailyKWh    float64  `json:"consumo_diario_kwh"`
	MonthlyKWh  float64  `json:"consumo_mensal_kwh"`
	MonthlyBRL  float64  `json:"custo_mensal_reais"`
}

// RoomReport is one row of the monthly per-room report
type RoomReport struct {
	RoomID         int64   `json:"comodo_id"`
	Room           string  `json:"comodo"`
	ApplianceCount int     `json:"total_aparelhos"`
	MonthlyKWh     float64 `json:"consumo_mensal_kwh"`
	MonthlyBRL     float64 `json:"custo_mensal_reais"`
	DailyWattHours float64 `json:"watts_diarios"`
}

// ConsumptionTotals sums a whole household
type ConsumptionTotals struct {
	Rooms      int     `json:"total_comodos"`
	Appliances int     `json:"total_aparelhos"`
	DailyKWh   float64 `json:"consumo_diario_kwh"`
	MonthlyKWh float64 `json:"consumo_mensal_kwh"`
	MonthlyBRL float64 `json:"custo_mensal_reais"`
}

// AverageConsumption is a reference monthly average
type AverageConsumption struct {
	MonthlyKWh float64 `json:"media_consumo_kwh"`
	MonthlyBRL float64 `json:"media_custo_reais"`
	Source     string  `json:"fonte,omitempty"`
}
