package tui

import (
	"github.com/goccy/go-json"

	"github.com/abdidvp/themecheck/internal/application"
	"github.com/abdidvp/themecheck/internal/domain"
)

type jsonOffense struct {
	domain.Offense
	Code        string `json:"code"`
	Correctable bool   `json:"correctable"`
	Status      string `json:"status"`
}

type jsonReport struct {
	Root     string        `json:"root"`
	Files    int           `json:"files"`
	Offenses []jsonOffense `json:"offenses"`
	Summary  jsonSummary   `json:"summary"`
}

type jsonSummary struct {
	Offenses      int `json:"offenses"`
	Corrected     int `json:"corrected"`
	Uncorrectable int `json:"uncorrectable"`
}

// RenderJSON renders a run as an indented JSON document.
func RenderJSON(report *application.Report) ([]byte, error) {
	out := jsonReport{
		Root:     report.Root,
		Files:    report.Files,
		Offenses: make([]jsonOffense, 0, len(report.Offenses)),
		Summary: jsonSummary{
			Offenses:      len(report.Offenses),
			Corrected:     len(report.Corrected),
			Uncorrectable: len(report.Uncorrectable),
		},
	}
	for _, o := range report.Offenses {
		out.Offenses = append(out.Offenses, jsonOffense{
			Offense:     o,
			Code:        domain.CheckCode(o.Check),
			Correctable: o.Correctable(),
			Status:      o.Status.String(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
