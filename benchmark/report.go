package benchmark

import (
	"fmt"
	"io"
	"strings"
)

// WriteTable renders maxTenants[s-1][m-1] as a LaTeX booktabs tabular
// with one row per server count and one column per metric count.
func WriteTable(w io.Writer, maxTenants [][]int) error {
	nrMetrics := 0
	if len(maxTenants) > 0 {
		nrMetrics = len(maxTenants[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{tabular}{l%s}\n", strings.Repeat("l", nrMetrics))
	b.WriteString("\\toprule[1pt]\n")
	fmt.Fprintf(&b, "{\\bf Servers} & \\multicolumn{%d}{c}{{\\bf Metrics}} \\\\\n", nrMetrics)
	fmt.Fprintf(&b, "\\cmidrule(r){2-%d}\n", nrMetrics+1)
	for m := 1; m <= nrMetrics; m++ {
		fmt.Fprintf(&b, " & {\\bf %d}", m)
	}
	for s, row := range maxTenants {
		b.WriteString("\\\\\n\\midrule\n")
		fmt.Fprintf(&b, "{\\bf %d}", s+1)
		for _, n := range row {
			fmt.Fprintf(&b, "& %d", n)
		}
	}
	b.WriteString("\\\\\n\\bottomrule[1pt]\n\\end{tabular}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteWeights renders every row of rep followed by the per mapper maxima
// in the order of names.
func WriteWeights(w io.Writer, rep *WeightReport, names []string) error {
	var b strings.Builder
	for _, row := range rep.Rows {
		fmt.Fprintf(&b, "%d tenants; %d servers; %d metrics - %s\n",
			row.Tenants, row.Servers, row.Metrics, strings.ToUpper(row.Mapper))
		fmt.Fprintf(&b, "max abs. single qb weight: %g\n", row.MaxLinear)
		fmt.Fprintf(&b, "max abs. connection weight: %g\n", row.MaxCoupling)
		fmt.Fprintf(&b, "min abs. single qb weight > 0: %g\n", row.MinLinear)
		fmt.Fprintf(&b, "min abs. connection weight > 0: %g\n", row.MinCoupling)
	}
	for _, name := range names {
		fmt.Fprintf(&b, "%s mapper - maximum absolute weight value: %g\n", name, rep.Max[name])
	}
	_, err := io.WriteString(w, b.String())
	return err
}
