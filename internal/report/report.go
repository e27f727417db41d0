// Package report renders block stream statistics for the command line.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/thesyncim/mlac"
)

// Format selects how a Report is written.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Report summarizes one encoded or decoded stream.
type Report struct {
	Profile    string  `yaml:"profile"`
	SampleRate int     `yaml:"sample_rate"`
	MinTuples  int     `yaml:"min_tuples,omitempty"`
	TargetKbps float64 `yaml:"target_kbps,omitempty"`

	Blocks          int     `yaml:"blocks"`
	LossyBlocks     int     `yaml:"lossy_blocks"`
	LossyRatio      float64 `yaml:"lossy_ratio"`
	Tuples          int     `yaml:"tuples"`
	AverageTuples   float64 `yaml:"average_tuples"`
	AverageBitDepth float64 `yaml:"average_bit_depth"`
	Kbps            float64 `yaml:"kbps"`
	PeakKbps        float64 `yaml:"peak_kbps,omitempty"`
}

// New builds a report from accumulated stream statistics.
func New(p mlac.Profile, sampleRate int, s mlac.Stats) Report {
	return Report{
		Profile:         p.Name,
		SampleRate:      sampleRate,
		Blocks:          s.Blocks,
		LossyBlocks:     s.LossyBlocks,
		LossyRatio:      round(s.LossyRatio()),
		Tuples:          s.Tuples,
		AverageTuples:   round(s.AverageTuples()),
		AverageBitDepth: round(s.AverageBitDepth()),
		Kbps:            round(s.Kbps(p, sampleRate)),
	}
}

func round(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

// Write renders r to w in the given format.
func (r Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatYAML, "":
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatTable:
		_, err := io.WriteString(w, r.Table()+"\n")
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	valueStyle = lipgloss.NewStyle().PaddingLeft(2)
	lossyStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#ff5f5f"))
)

// Table renders r as an aligned two-column table.
func (r Report) Table() string {
	type row struct {
		label, value string
		warn         bool
	}
	rows := []row{
		{"profile", r.Profile, false},
		{"sample rate", fmt.Sprintf("%d Hz", r.SampleRate), false},
	}
	if r.MinTuples > 0 {
		rows = append(rows, row{"min tuples", fmt.Sprint(r.MinTuples), false})
	}
	if r.TargetKbps > 0 {
		rows = append(rows, row{"target", fmt.Sprintf("%.1f kbit/s", r.TargetKbps), false})
	}
	rows = append(rows,
		row{"blocks", fmt.Sprint(r.Blocks), false},
		row{"lossy blocks", fmt.Sprintf("%d (%.1f%%)", r.LossyBlocks, 100*r.LossyRatio), r.LossyBlocks > 0},
		row{"tuples", fmt.Sprint(r.Tuples), false},
		row{"tuples/block", fmt.Sprintf("%.2f", r.AverageTuples), false},
		row{"bit depth", fmt.Sprintf("%.2f", r.AverageBitDepth), false},
		row{"rate", fmt.Sprintf("%.1f kbit/s", r.Kbps), false},
	)
	if r.PeakKbps > 0 {
		rows = append(rows, row{"peak rate", fmt.Sprintf("%.1f kbit/s", r.PeakKbps), false})
	}

	width := 0
	for _, rw := range rows {
		width = max(width, len(rw.label))
	}
	lines := make([]string, len(rows))
	for i, rw := range rows {
		vs := valueStyle
		if rw.warn {
			vs = lossyStyle
		}
		label := labelStyle.Render(rw.label + strings.Repeat(" ", width-len(rw.label)))
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, label, vs.Render(rw.value))
	}
	return strings.Join(lines, "\n")
}
