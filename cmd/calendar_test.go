package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/jtrack/internal/calendar"
	"github.com/Tiliavir/jtrack/internal/model"
)

func TestPrintCalendar(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	today := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	apps := []model.Application{
		{ID: "1", CompanyName: "Acme", Role: "Dev", DateApplied: "2026-10-14", Status: model.StatusApplied},
		{ID: "2", CompanyName: "Globex", Role: "SRE", DateApplied: "2026-10-14", Status: model.StatusOffer},
	}
	notes := []model.DateNote{{Date: "2026-10-02", Note: "recruiter call"}}
	g := calendar.BuildMonth(calendar.MonthQuery{Year: 2026, Month: time.October, Today: today}, apps, notes)

	var buf bytes.Buffer
	require.NoError(t, printCalendar(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "October 2026\n"), out)
	assert.Contains(t, out, "14 •2")
	assert.Contains(t, out, " 2 ✎")
	assert.Contains(t, out, "[15]")
	assert.Contains(t, out, "Oct 14, 2026\n  • Acme – Dev (Applied)\n  • Globex – SRE (Offer Received)")
	assert.Contains(t, out, "Oct 2, 2026\n  ✎ recruiter call")
}

func TestCellLabel(t *testing.T) {
	pterm.DisableColor()
	t.Cleanup(pterm.EnableColor)

	day := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		cell calendar.Cell
		want string
	}{
		{"empty", calendar.Cell{Date: day, InMonth: true}, " 3"},
		{"apps and note", calendar.Cell{Date: day, InMonth: true, Applications: make([]model.Application, 3), Note: &model.DateNote{}}, " 3 •3 ✎"},
		{"today", calendar.Cell{Date: day, InMonth: true, IsToday: true}, "[ 3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellLabel(tt.cell, false))
		})
	}
}
