package bankcsv

// Profile describes one bank's CSV layout: which headers name the date,
// description and amount columns, how dates are written, and whether the
// bank uses a decimal comma.
type Profile struct {
	Name         string
	DateCol      string
	DescCol      string
	AmountCol    string
	DateFormats  []string
	DecimalComma bool
}

func (p *Profile) requiredCols() []string {
	return []string{p.DateCol, p.DescCol, p.AmountCol}
}

// profiles are tried in order; the first whose required columns all appear
// in a row wins.
var profiles = []Profile{
	{
		Name:         "extrato",
		DateCol:      "Data mov.",
		DescCol:      "Descrição",
		AmountCol:    "Montante",
		DateFormats:  []string{"02-01-2006", "02/01/2006"},
		DecimalComma: true,
	},
	{
		Name:        "generic",
		DateCol:     "Date",
		DescCol:     "Description",
		AmountCol:   "Amount",
		DateFormats: []string{"2006-01-02", "02/01/2006"},
	},
}
