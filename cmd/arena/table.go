package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ahrav/pitch-arena/internal/domain"
)

// renderStandings formats the tournament standings as a terminal table,
// resolving participant names from their ids.
func renderStandings(t *domain.Tournament) string {
	names := make(map[string]string, len(t.Participants))
	for _, p := range t.Participants {
		names[p.ID] = p.Name
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Rank", "Participant", "W", "L", "Win %", "Avg Score"})

	for _, s := range t.Standings {
		avg := "-"
		if s.AverageScore > 0 {
			avg = fmt.Sprintf("%.2f", s.AverageScore)
		}
		tw.AppendRow(table.Row{
			s.Rank,
			names[s.ParticipantID],
			s.Wins,
			s.Losses,
			fmt.Sprintf("%.1f%%", s.WinPercentage),
			avg,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	return tw.Render()
}
