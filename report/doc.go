// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders closed-election tallies as PDF documents.
// PDFRenderer implements election.ReportRenderer.
package report
