package formatter

import (
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

// Tree renders each row as a branch labelled with its first column, holding
// one "label: text" leaf per remaining column. Rows with an empty first
// column are labelled by their position.
func Tree(set *columns.Set, rows []loader.Record) string {
	labels := set.Labels()
	tree := treeprint.NewWithRoot("records (" + strconv.Itoa(len(rows)) + ")")
	for n, r := range rows {
		title := set.Text(0, r)
		if title == "" {
			title = "#" + strconv.Itoa(n+1)
		}
		branch := tree.AddBranch(labels[0] + ": " + title)
		for i := 1; i < len(set.Columns); i++ {
			branch.AddNode(labels[i] + ": " + set.Text(i, r))
		}
	}
	return tree.String()
}
