package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const summarySheet = "Summary"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes a summary sheet followed by one sheet per rate sub-key.
// Hotel offerings get a sheet per board type, other categories a single one.
func (g *Generator) Generate(offering model.ServiceOffering, rates []model.RateRecord) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	groups := groupBySubKey(rates)
	g.writeSummary(file, offering, rates, groups)

	used := map[string]struct{}{summarySheet: {}}
	for _, group := range groups {
		sheet := buildSheetName(offering.Category, group.subKey, used)
		used[sheet] = struct{}{}

		if _, err := file.NewSheet(sheet); err != nil {
			return nil, err
		}
		g.writeRates(file, sheet, offering.Category, group.rates)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type rateGroup struct {
	subKey string
	rates  []model.RateRecord
}

func groupBySubKey(rates []model.RateRecord) []rateGroup {
	index := map[string]int{}
	var groups []rateGroup
	for _, rate := range rates {
		key := rate.SubKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, rateGroup{subKey: key})
		}
		groups[i].rates = append(groups[i].rates, rate)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].subKey < groups[j].subKey })
	for _, group := range groups {
		sort.SliceStable(group.rates, func(i, j int) bool {
			return group.rates[i].SeasonFrom.Before(group.rates[j].SeasonFrom)
		})
	}
	return groups
}

func (g *Generator) writeSummary(file *excelize.File, offering model.ServiceOffering, rates []model.RateRecord, groups []rateGroup) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	active := 0
	for _, rate := range rates {
		if rate.IsActive {
			active++
		}
	}

	set("A1", "Offering")
	set("B1", offering.Title)
	set("A2", "Supplier")
	set("B2", offering.SupplierName)
	set("A3", "Category")
	set("B3", string(offering.Category))
	set("A4", "Seasons")
	set("B4", len(rates))
	set("A5", "Active seasons")
	set("B5", active)

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), subKeyLabel(offering.Category))
	set(fmt.Sprintf("B%d", tableRow), "Seasons")
	set(fmt.Sprintf("C%d", tableRow), "First day")
	set(fmt.Sprintf("D%d", tableRow), "Last day")
	for i, group := range groups {
		row := tableRow + 1 + i
		first, last := seasonBounds(group.rates)
		set(fmt.Sprintf("A%d", row), formatSubKey(group.subKey))
		set(fmt.Sprintf("B%d", row), len(group.rates))
		set(fmt.Sprintf("C%d", row), formatDate(first))
		set(fmt.Sprintf("D%d", row), formatDate(last))
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 40)
	_ = file.SetColWidth(summarySheet, "C", "D", 14)
}

func (g *Generator) writeRates(file *excelize.File, sheet string, category model.ServiceCategory, rates []model.RateRecord) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := append([]string{"Rate ID", "Season from", "Season to", "Active"}, payloadHeaders(category)...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, rate := range rates {
		row := i + 2
		values := append([]interface{}{
			rate.ID.String(),
			formatDate(rate.SeasonFrom),
			formatDate(rate.SeasonTo),
			formatBool(rate.IsActive),
		}, payloadValues(rate.Payload)...)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 38)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = file.SetColWidth(sheet, "B", lastCol, 16)
}

func payloadHeaders(category model.ServiceCategory) []string {
	switch category {
	case model.CategoryHotelRoom:
		return []string{"Board", "Per person (double)", "Single supplement", "Per person (triple)", "Child 0-2", "Child 3-5", "Child 6-11"}
	case model.CategoryTransfer:
		return []string{"Model", "Base cost", "Included km", "Included hours", "Extra km", "Extra hour"}
	case model.CategoryVehicleHire:
		return []string{"Daily rate", "Daily km included", "Extra km", "Driver daily", "Hourly rate", "Min hours"}
	case model.CategoryGuideService:
		return []string{"Model", "Day cost", "Hour cost"}
	case model.CategoryActivity:
		return []string{"Base cost", "Child discount, %"}
	default:
		return nil
	}
}

func payloadValues(payload model.RatePayload) []interface{} {
	switch p := payload.(type) {
	case model.HotelRate:
		return []interface{}{string(p.BoardType), amount(p.PricePerPersonDouble), amount(p.SingleSupplement), amount(p.PricePerPersonTriple), amount(p.ChildPrice0to2), amount(p.ChildPrice3to5), amount(p.ChildPrice6to11)}
	case model.TransferRate:
		return []interface{}{string(p.PricingModel), amount(p.BaseCostTry), amount(p.IncludedKm), amount(p.IncludedHours), amount(p.ExtraKmTry), amount(p.ExtraHourTry)}
	case model.VehicleRate:
		return []interface{}{amount(p.DailyRateTry), amount(p.DailyKmIncluded), amount(p.ExtraKmTry), amount(p.DriverDailyTry), amount(p.HourlyRateTry), amount(p.MinHours)}
	case model.GuideRate:
		return []interface{}{string(p.PricingModel), amount(p.DayCostTry), amount(p.HourCostTry)}
	case model.ActivityRate:
		return []interface{}{amount(p.BaseCostTry), amount(p.ChildDiscountPct)}
	default:
		return nil
	}
}

func subKeyLabel(category model.ServiceCategory) string {
	if category == model.CategoryHotelRoom {
		return "Board type"
	}
	return "Group"
}

func buildSheetName(category model.ServiceCategory, subKey string, used map[string]struct{}) string {
	base := "Rates"
	if strings.TrimSpace(subKey) != "" {
		base = fmt.Sprintf("%s - %s", subKeyLabel(category), subKey)
	}
	base = sanitizeSheetName(base)
	if len(base) > 31 {
		base = base[:31]
	}

	candidate := base
	counter := 2
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		candidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Rates"
	}
	return value
}

func seasonBounds(rates []model.RateRecord) (time.Time, time.Time) {
	var first, last time.Time
	for _, rate := range rates {
		if first.IsZero() || rate.SeasonFrom.Before(first) {
			first = rate.SeasonFrom
		}
		if rate.SeasonTo.After(last) {
			last = rate.SeasonTo
		}
	}
	return first, last
}

func formatSubKey(subKey string) string {
	if subKey == "" {
		return "All"
	}
	return subKey
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func amount(value decimal.Decimal) float64 {
	return value.InexactFloat64()
}
