package domain

import "sort"

// Aggregate folds payment records into per-year summaries. The fold is
// pure addition, so feeding the same records twice scales every total
// by two and input order never matters. Years come back newest first;
// months and quarters are positional within a year.
func Aggregate(records []Record) []YearSales {
	byYear := make(map[int]*YearSales)
	for _, record := range records {
		year := record.Date.Year()
		sales, ok := byYear[year]
		if !ok {
			sales = &YearSales{Year: year}
			byYear[year] = sales
		}

		month := int(record.Date.Month()) - 1
		sales.Monthly[month] += record.Amount
		sales.Quarterly[month/3] += record.Amount
		sales.YearlyTotal += record.Amount
	}

	out := make([]YearSales, 0, len(byYear))
	for _, sales := range byYear {
		out = append(out, *sales)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// AggregateYear reduces records to the summary of a single year.
func AggregateYear(records []Record, year int) YearSales {
	for _, sales := range Aggregate(records) {
		if sales.Year == year {
			return sales
		}
	}
	return YearSales{Year: year}
}
