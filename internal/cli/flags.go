package cli

import (
	"github.com/spf13/pflag"

	"github.com/alexanderramin/okrview/internal/domain"
)

// directionValue adapts domain.Direction to pflag.Value so --direction
// rejects bad input at parse time.
type directionValue struct {
	d *domain.Direction
}

var _ pflag.Value = directionValue{}

func (v directionValue) String() string {
	if v.d == nil {
		return ""
	}
	return string(*v.d)
}

func (v directionValue) Set(s string) error {
	d, err := domain.ParseDirection(s)
	if err != nil {
		return err
	}
	*v.d = d
	return nil
}

func (v directionValue) Type() string { return "LR|TB" }

// addDirectionFlag registers --direction, defaulting to def.
func addDirectionFlag(fs *pflag.FlagSet, target *domain.Direction, def domain.Direction) {
	*target = def
	fs.VarP(directionValue{d: target}, "direction", "d", "layout direction: LR (horizontal) or TB (vertical)")
}

// treeFlags are shared by the commands that pick one objective tree.
type treeFlags struct {
	cycleID     int64
	objectiveID int64
	direction   domain.Direction
	expand      []string
	expandAll   bool
	file        string
	cached      bool
}

func (f *treeFlags) register(fs *pflag.FlagSet, def domain.Direction) {
	fs.Int64Var(&f.cycleID, "cycle", 0, "cycle ID (defaults to the active cycle)")
	fs.Int64Var(&f.objectiveID, "objective", 0, "company objective ID")
	addDirectionFlag(fs, &f.direction, def)
	fs.StringSliceVar(&f.expand, "expand", nil, "node IDs to expand, e.g. kr-3,obj-2")
	fs.BoolVar(&f.expandAll, "expand-all", false, "expand every node")
	fs.StringVar(&f.file, "file", "", "read the tree from a JSON file instead of the server")
	fs.BoolVar(&f.cached, "cached", false, "use the locally cached snapshot")
}
