//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"fmt"
	"io"

	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/text/superscript"
)

// Report renders the mapping statistics as a table.
func (res *Result) Report(out io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Metric").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column("LUT6")
	row.Column(fmt.Sprintf("%d", res.Stats.NSingle))

	row = tab.Row()
	row.Column("LUT6D")
	row.Column(fmt.Sprintf("%d", res.Stats.NDual))

	row = tab.Row()
	row.Column("Total LUTs").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", res.Stats.NSingle+res.Stats.NDual)).
		SetFormat(tabulate.FmtBold)

	dist := res.CutSizeDistribution()
	for n := 1; n <= 6; n++ {
		if dist[n] == 0 {
			continue
		}
		row = tab.Row()
		row.Column(fmt.Sprintf("├╴%d-input (2%s rows)",
			n, superscript.Itoa(n))).SetFormat(tabulate.FmtItalic)
		row.Column(fmt.Sprintf("%d", dist[n])).SetFormat(tabulate.FmtItalic)
	}

	row = tab.Row()
	row.Column("Critical depth")
	row.Column(fmt.Sprintf("%d", res.Stats.Depth))

	row = tab.Row()
	row.Column("Avg area flow")
	row.Column(fmt.Sprintf("%.3f", res.Stats.AvgAreaFlow))

	row = tab.Row()
	row.Column("Dual candidates, stage 1")
	row.Column(fmt.Sprintf("%d", res.Stats.DualStage1Considered))

	row = tab.Row()
	row.Column("Dual candidates, stage 2")
	row.Column(fmt.Sprintf("%d", res.Stats.DualStage2Considered))

	if res.Stats.Unmapped > 0 {
		row = tab.Row()
		row.Column("Unmapped")
		row.Column(fmt.Sprintf("%d", res.Stats.Unmapped))
	}

	tab.Print(out)
}
