package consumption

import (
	"sort"
	"strings"

	"github.com/jgoulah/energyadvisor/pkg/models"
)

// NationalAverage is the published Brazilian residential monthly average
var NationalAverage = models.AverageConsumption{
	MonthlyKWh: 152.0,
	MonthlyBRL: 98.80,
	Source:     "EPE - Empresa de Pesquisa Energética 2024",
}

// AggregateRooms sums every room's appliances and lists the named ones.
// Rooms keep their input order. Unnamed appliances count towards the sums
// but are left out of the appliance list.
func AggregateRooms(rooms []models.Room) []models.RoomConsumption {
	result := make([]models.RoomConsumption, 0, len(rooms))
	for _, room := range rooms {
		rc := models.RoomConsumption{
			RoomID:     room.ID,
			Room:       room.Name,
			Appliances: []models.ApplianceSummary{},
		}
		for _, a := range room.Appliances {
			monthly := MonthlyKWh(a.PowerWatts, a.HoursPerDay)
			rc.MonthlyKWh += monthly
			rc.MonthlyBRL += MonthlyCost(a.PowerWatts, a.HoursPerDay)

			if strings.TrimSpace(a.Name) == "" {
				continue
			}
			rc.Appliances = append(rc.Appliances, models.ApplianceSummary{
				Name:        a.Name,
				PowerWatts:  a.PowerWatts,
				HoursPerDay: a.HoursPerDay,
				MonthlyKWh:  monthly,
			})
		}
		result = append(result, rc)
	}
	return result
}

// WithNamedAppliances keeps the rooms that have at least one named appliance
func WithNamedAppliances(rooms []models.RoomConsumption) []models.RoomConsumption {
	var result []models.RoomConsumption
	for _, rc := range rooms {
		if len(rc.Appliances) > 0 {
			result = append(result, rc)
		}
	}
	return result
}

// ByCategory totals appliances per category, highest monthly kWh first.
// Equal totals keep the order in which the category was first seen.
func ByCategory(rooms []models.Room) []models.CategoryStats {
	index := make(map[models.Category]int)
	var stats []models.CategoryStats

	for _, room := range rooms {
		for _, a := range room.Appliances {
			category := a.Category
			if category == "" {
				category = models.CategoryOther
			}
			i, ok := index[category]
			if !ok {
				i = len(stats)
				index[category] = i
				stats = append(stats, models.CategoryStats{Category: category})
			}
			stats[i].Count++
			stats[i].MonthlyKWh += MonthlyKWh(a.PowerWatts, a.HoursPerDay)
			stats[i].MonthlyBRL += MonthlyCost(a.PowerWatts, a.HoursPerDay)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].MonthlyKWh > stats[j].MonthlyKWh
	})
	if stats == nil {
		stats = []models.CategoryStats{}
	}
	return stats
}

// ApplianceBreakdown lists every appliance with its derived figures,
// highest monthly kWh first
func ApplianceBreakdown(rooms []models.Room) []models.ApplianceConsumption {
	rows := []models.ApplianceConsumption{}
	for _, room := range rooms {
		for _, a := range room.Appliances {
			rows = append(rows, models.ApplianceConsumption{
				Room:        room.Name,
				Appliance:   a.Name,
				ApplianceID: a.ID,
				Category:    a.Category,
				PowerWatts:  a.PowerWatts,
				HoursPerDay: a.HoursPerDay,
				DailyKWh:    DailyKWh(a.PowerWatts, a.HoursPerDay),
				MonthlyKWh:  MonthlyKWh(a.PowerWatts, a.HoursPerDay),
				MonthlyBRL:  MonthlyCost(a.PowerWatts, a.HoursPerDay),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MonthlyKWh > rows[j].MonthlyKWh
	})
	return rows
}

// MonthlyReport summarizes each room, highest monthly kWh first
func MonthlyReport(rooms []models.Room) []models.RoomReport {
	rows := make([]models.RoomReport, 0, len(rooms))
	for _, room := range rooms {
		row := models.RoomReport{
			RoomID:         room.ID,
			Room:           room.Name,
			ApplianceCount: len(room.Appliances),
		}
		for _, a := range room.Appliances {
			row.MonthlyKWh += MonthlyKWh(a.PowerWatts, a.HoursPerDay)
			row.MonthlyBRL += MonthlyCost(a.PowerWatts, a.HoursPerDay)
			row.DailyWattHours += a.PowerWatts * a.HoursPerDay
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MonthlyKWh > rows[j].MonthlyKWh
	})
	return rows
}

// Totals sums the whole household
func Totals(rooms []models.Room) models.ConsumptionTotals {
	totals := models.ConsumptionTotals{Rooms: len(rooms)}
	for _, room := range rooms {
		for _, a := range room.Appliances {
			totals.Appliances++
			totals.DailyKWh += DailyKWh(a.PowerWatts, a.HoursPerDay)
			totals.MonthlyKWh += MonthlyKWh(a.PowerWatts, a.HoursPerDay)
			totals.MonthlyBRL += MonthlyCost(a.PowerWatts, a.HoursPerDay)
		}
	}
	return totals
}
