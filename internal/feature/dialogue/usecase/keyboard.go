package usecase

import "stocks_bot/internal/feature/prices/domain/entity"

// Keyboard is a reply keyboard independent of the chat transport.
type Keyboard struct {
	Rows    [][]string
	OneTime bool
}

// MainMenuKeyboard is shown after /start, on errors and when a request completes.
func MainMenuKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{
		{BtnHistorical, BtnSMA},
		{BtnFullData, BtnGuide},
	}}
}

// CancelKeyboard is shown while a prompt is waiting for free text.
func CancelKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{BtnCancel}}}
}

// BackKeyboard returns to the main menu.
func BackKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{BtnBack}}}
}

// PeriodKeyboard lists the accepted timespans, three per row.
func PeriodKeyboard() *Keyboard {
	kb := &Keyboard{OneTime: true}
	var row []string
	for _, ts := range entity.Timespans {
		row = append(row, string(ts))
		if len(row) == 3 {
			kb.Rows = append(kb.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Rows = append(kb.Rows, row)
	}
	return kb
}

// ChartKeyboard lists the chart styles.
func ChartKeyboard() *Keyboard {
	return &Keyboard{
		Rows:    [][]string{{string(entity.ChartCandle), string(entity.ChartLine)}},
		OneTime: true,
	}
}
