// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	"github.com/danielhkuo/elex/election"
	"github.com/danielhkuo/elex/models"
)

const (
	pageMargin = 20.0
	lineHeight = 8.0
	nameWidth  = 110.0
	votesWidth = 30.0
	shareWidth = 30.0
)

// PDFRenderer renders the final tally of an election as an A4 PDF.
type PDFRenderer struct {
	// Now stamps the generation time; defaults to time.Now.
	Now func() time.Time
}

var _ election.ReportRenderer = PDFRenderer{}

func (r PDFRenderer) RenderReport(results []models.OptionResult, e models.Election) ([]byte, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(e.Name, true)
	pdf.SetCreator("elex", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 10, tr(e.Name), "", "L", false)
	if e.Description != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(e.Description), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range summaryLines(e) {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(nameWidth, lineHeight, "Option", "1", 0, "L", true, 0, "")
	pdf.CellFormat(votesWidth, lineHeight, "Votes", "1", 0, "R", true, 0, "")
	pdf.CellFormat(shareWidth, lineHeight, "Share", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, res := range results {
		pdf.CellFormat(nameWidth, lineHeight, tr(res.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(votesWidth, lineHeight, humanize.Comma(int64(res.Votes)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(shareWidth, lineHeight, share(res.Votes, e.Voted), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLines(e models.Election) []string {
	lines := []string{
		fmt.Sprintf("Ballots cast: %s of %s registered voters (%s)",
			humanize.Comma(int64(e.Voted)), humanize.Comma(int64(e.Voters)), turnout(e)),
		fmt.Sprintf("Options per ballot: up to %d", e.Votable),
	}
	if e.StartDate != nil {
		lines = append(lines, "Opened: "+e.StartDate.UTC().Format("2006-01-02 15:04 MST"))
	}
	if e.EndDate != nil {
		lines = append(lines, "Closed: "+e.EndDate.UTC().Format("2006-01-02 15:04 MST"))
		if e.StartDate != nil {
			lines = append(lines, "Voting window: "+strings.TrimSpace(humanize.RelTime(*e.StartDate, *e.EndDate, "", "")))
		}
	}
	return lines
}

func turnout(e models.Election) string {
	if e.Voters == 0 {
		return "n/a"
	}
	return humanize.FtoaWithDigits(float64(e.Voted)*100/float64(e.Voters), 1) + "%"
}

// share is the fraction of ballots that selected an option.
func share(votes, ballots int) string {
	if ballots == 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(float64(votes)*100/float64(ballots), 1) + "%"
}
