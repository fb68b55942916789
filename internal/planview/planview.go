// Package planview renders Bloom filter sizing plans as tables, yaml, and
// charts.
package planview

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/bloomfang/pkg/bloom"
	"github.com/Sumatoshi-tech/bloomfang/pkg/safeconv"
)

const (
	bitsPerByte = 8
	bitsPerWord = 64

	percentScale = 100

	valueColumn = 2
)

// Plan is a computed Bloom filter sizing plan for a target element count and
// false-positive rate.
type Plan struct {
	Elements       uint64  `yaml:"elements"`
	FPRate         float64 `yaml:"fp_rate"`
	Scheme         string  `yaml:"scheme"`
	CapacityBits   uint    `yaml:"capacity_bits"`
	CapacityBytes  uint64  `yaml:"capacity_bytes"`
	Words          uint64  `yaml:"words"`
	HashCount      uint    `yaml:"hash_count"`
	BitsPerElement float64 `yaml:"bits_per_element"`
	DesignFill     float64 `yaml:"design_fill_ratio"`
	DesignFPRate   float64 `yaml:"design_fp_rate"`
}

// Compute builds a Plan from the sizing targets. Optimizer failures propagate
// unchanged, so an out-of-range rate surfaces as bloom.ErrInvalidParameter.
func Compute(elements uint64, fpRate float64, scheme string) (Plan, error) {
	capacity, err := bloom.OptimalM(uint(elements), fpRate)
	if err != nil {
		return Plan{}, err
	}

	hashCount, err := bloom.OptimalK(capacity, uint(elements))
	if err != nil {
		return Plan{}, err
	}

	bitsPerElem, err := bloom.BitsPerElement(fpRate)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Elements:       elements,
		FPRate:         fpRate,
		Scheme:         scheme,
		CapacityBits:   capacity,
		CapacityBytes:  (uint64(capacity) + bitsPerByte - 1) / bitsPerByte,
		Words:          (uint64(capacity) + bitsPerWord - 1) / bitsPerWord,
		HashCount:      hashCount,
		BitsPerElement: bitsPerElem,
		DesignFill:     fillAtLoad(capacity, hashCount, elements),
		DesignFPRate:   fpAtLoad(capacity, hashCount, elements),
	}, nil
}

// RenderTable writes the plan as an aligned two-column table.
func RenderTable(w io.Writer, p Plan) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: valueColumn, Align: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{"Parameter", "Value"})
	tbl.AppendRow(table.Row{"Expected elements", humanize.Comma(safeconv.MustUint64ToInt64(p.Elements))})
	tbl.AppendRow(table.Row{"Target FP rate", fmt.Sprintf("%.4g", p.FPRate)})
	tbl.AppendRow(table.Row{"Digest scheme", p.Scheme})
	tbl.AppendRow(table.Row{"Capacity", fmt.Sprintf("%s bits", humanize.Comma(safeconv.MustUintToInt64(p.CapacityBits)))})
	tbl.AppendRow(table.Row{"Memory", humanize.IBytes(p.CapacityBytes)})
	tbl.AppendRow(table.Row{"Words (64-bit)", humanize.Comma(safeconv.MustUint64ToInt64(p.Words))})
	tbl.AppendRow(table.Row{"Hash count", fmt.Sprintf("%d", p.HashCount)})
	tbl.AppendRow(table.Row{"Bits per element", fmt.Sprintf("%.2f", p.BitsPerElement)})
	tbl.AppendRow(table.Row{"Fill at design load", fmt.Sprintf("%.2f%%", p.DesignFill*percentScale)})
	tbl.AppendRow(table.Row{"FP rate at design load", fmt.Sprintf("%.4g", p.DesignFPRate)})

	tbl.Render()
}

// RenderYAML writes the plan as a yaml document.
func RenderYAML(w io.Writer, p Plan) error {
	encoder := yaml.NewEncoder(w)

	encodeErr := encoder.Encode(p)
	if encodeErr != nil {
		return fmt.Errorf("encode plan: %w", encodeErr)
	}

	closeErr := encoder.Close()
	if closeErr != nil {
		return fmt.Errorf("close yaml encoder: %w", closeErr)
	}

	return nil
}

// fillAtLoad returns the expected fraction of set bits after n insertions:
// 1 - e^(-k*n/m).
func fillAtLoad(m, k uint, n uint64) float64 {
	return 1 - math.Exp(-float64(k)*float64(n)/float64(m))
}

// fpAtLoad returns the expected false-positive probability after n
// insertions: (1 - e^(-k*n/m))^k.
func fpAtLoad(m, k uint, n uint64) float64 {
	return math.Pow(fillAtLoad(m, k, n), float64(k))
}
