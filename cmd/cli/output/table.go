package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/crucial707/idle-clicker/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable writes a pretty table to w.
func RenderTable(w io.Writer, headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

// RenderAccount prints the account as a two-column field/value table.
func RenderAccount(w io.Writer, v models.AccountView) {
	RenderTable(w, []string{"Field", "Value"}, [][]interface{}{
		{"Username", v.Username},
		{"Balance", fmt.Sprintf("%.2f", v.Balance)},
		{"Level", v.Level},
		{"Production/s", fmt.Sprintf("%.0f", v.Production)},
		{"Next level cost", fmt.Sprintf("%.0f", v.NextLevelCost)},
		{"Last collected", v.LastCollectedAt.Local().Format(time.RFC3339)},
	})
}

// RenderJSON prints v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
