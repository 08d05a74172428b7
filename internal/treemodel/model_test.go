package treemodel_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/treemodel"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// recorder logs every notification as a short string.
type recorder struct {
	events []string
}

func (r *recorder) BeginRemoveRows(parent treemodel.Index, first, last int) {
	r.events = append(r.events, fmt.Sprintf("begin-remove %s %d-%d", parent.Node, first, last))
}
func (r *recorder) EndRemoveRows() { r.events = append(r.events, "end-remove") }
func (r *recorder) BeginInsertRows(parent treemodel.Index, first, last int) {
	r.events = append(r.events, fmt.Sprintf("begin-insert %s %d-%d", parent.Node, first, last))
}
func (r *recorder) EndInsertRows() { r.events = append(r.events, "end-insert") }
func (r *recorder) DataChanged(index treemodel.Index) {
	r.events = append(r.events, fmt.Sprintf("changed %s %d", index.Node, index.Column))
}

// fixture builds:
//
//	/
//	├── Development (folder)
//	│   ├── Go       https://go.dev
//	│   └── Rust     https://rust-lang.org
//	├── Reading (folder)
//	└── News         https://news.ycombinator.com
type fixture struct {
	tree               *model.Tree
	dev, reading       model.ID
	goDocs, rust, news model.ID
	model              *treemodel.Model
	rec                *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tree := model.NewTree()
	mk := func(kind model.Kind, title, addr string, parent model.ID) model.ID {
		id, err := tree.NewNode(model.NewNodeParams{Kind: kind, Title: title, Address: addr, Parent: parent})
		assert.NilError(t, err)
		return id
	}

	f := &fixture{tree: tree, rec: &recorder{}}
	f.dev = mk(model.KindFolder, "Development", "", tree.Root())
	f.goDocs = mk(model.KindAddress, "Go", "https://go.dev", f.dev)
	f.rust = mk(model.KindAddress, "Rust", "https://rust-lang.org", f.dev)
	f.reading = mk(model.KindFolder, "Reading", "", tree.Root())
	f.news = mk(model.KindAddress, "News", "https://news.ycombinator.com", tree.Root())
	f.model = treemodel.New(tree, f.rec)
	return f
}

func (f *fixture) index(t *testing.T, id model.ID) treemodel.Index {
	t.Helper()
	idx, ok := f.model.IndexOf(id)
	assert.Assert(t, ok, "no index for %s", id)
	return idx
}

func (f *fixture) titles(t *testing.T, parent model.ID) []string {
	t.Helper()
	n, err := f.tree.Node(parent)
	assert.NilError(t, err)
	var out []string
	for _, c := range n.Children() {
		child, _ := f.tree.Node(c)
		out = append(out, child.Title)
	}
	return out
}

func TestModel_RowAndColumnCounts(t *testing.T) {
	f := newFixture(t)
	m := f.model

	assert.Equal(t, m.RowCount(treemodel.Index{}), 3)
	assert.Equal(t, m.RowCount(f.index(t, f.dev)), 2)
	assert.Equal(t, m.RowCount(f.index(t, f.news)), 0)
	assert.Equal(t, m.ColumnCount(treemodel.Index{}), treemodel.ColumnCount)

	// Cells past column 0 have no children
	devAddr := f.index(t, f.dev)
	devAddr.Column = treemodel.ColumnAddress
	assert.Equal(t, m.RowCount(devAddr), 0)
	assert.Equal(t, m.ColumnCount(devAddr), 0)
}

func TestModel_IndexAndParent(t *testing.T) {
	f := newFixture(t)
	m := f.model

	dev := m.Index(0, treemodel.ColumnTitle, treemodel.Index{})
	assert.Equal(t, dev.Node, f.dev)

	rust := m.Index(1, treemodel.ColumnAddress, dev)
	assert.Equal(t, rust.Node, f.rust)
	assert.Equal(t, rust.Column, treemodel.ColumnAddress)

	assert.Equal(t, m.Parent(rust).Node, f.dev)
	assert.Equal(t, m.Parent(rust).Row, 0)
	assert.Assert(t, !m.Parent(dev).IsValid(), "top-level rows have the root as parent")

	assert.Assert(t, !m.Index(5, treemodel.ColumnTitle, treemodel.Index{}).IsValid())
	assert.Assert(t, !m.Index(0, treemodel.Column(3), treemodel.Index{}).IsValid())
	assert.Assert(t, !m.Index(-1, treemodel.ColumnTitle, dev).IsValid())

	_, ok := m.IndexOf(f.tree.Root())
	assert.Assert(t, !ok, "root has no index")
}

func TestModel_HeaderData(t *testing.T) {
	m := newFixture(t).model

	for col, want := range []string{"Title", "Address", "Description"} {
		got, ok := m.HeaderData(treemodel.Column(col))
		assert.Assert(t, ok)
		assert.Equal(t, got, want)
	}
	_, ok := m.HeaderData(treemodel.Column(7))
	assert.Assert(t, !ok)
}

func TestModel_Data(t *testing.T) {
	f := newFixture(t)
	m := f.model
	goIdx := f.index(t, f.goDocs)

	title, ok := m.Data(goIdx, treemodel.RoleDisplay)
	assert.Assert(t, ok)
	assert.Equal(t, title, "Go")

	goIdx.Column = treemodel.ColumnAddress
	addr, _ := m.Data(goIdx, treemodel.RoleEdit)
	assert.Equal(t, addr, "https://go.dev")

	icon, ok := m.Data(f.index(t, f.dev), treemodel.RoleDecoration)
	assert.Assert(t, ok)
	assert.Equal(t, icon, string(treemodel.DecorationFolder))

	icon, _ = m.Data(f.index(t, f.news), treemodel.RoleDecoration)
	assert.Equal(t, icon, string(treemodel.DecorationPage))

	// Decoration only on the title column
	_, ok = m.Data(goIdx, treemodel.RoleDecoration)
	assert.Assert(t, !ok)

	_, ok = m.Data(treemodel.Index{}, treemodel.RoleDisplay)
	assert.Assert(t, !ok)
}

func TestModel_SetData(t *testing.T) {
	tests := []struct {
		name   string
		column treemodel.Column
		value  string
		wantOK bool
		check  func(n *model.Node) string
	}{
		{"title", treemodel.ColumnTitle, "Go Docs", true, func(n *model.Node) string { return n.Title }},
		{"address", treemodel.ColumnAddress, "https://pkg.go.dev", true, func(n *model.Node) string { return n.Address }},
		{"description", treemodel.ColumnDescription, "language home", true, func(n *model.Node) string { return n.Description }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			idx := f.index(t, f.goDocs)
			idx.Column = tt.column

			assert.Equal(t, f.model.SetData(idx, tt.value, treemodel.RoleEdit), tt.wantOK)
			n, _ := f.tree.Node(f.goDocs)
			assert.Equal(t, tt.check(n), tt.value)
			assert.DeepEqual(t, f.rec.events, []string{fmt.Sprintf("changed %s %d", f.goDocs, tt.column)})
		})
	}
}

func TestModel_SetData_RejectsEmpty(t *testing.T) {
	f := newFixture(t)

	for col := treemodel.ColumnTitle; col < treemodel.ColumnCount; col++ {
		idx := f.index(t, f.goDocs)
		idx.Column = col
		assert.Assert(t, !f.model.SetData(idx, "", treemodel.RoleEdit))
	}

	n, _ := f.tree.Node(f.goDocs)
	assert.Equal(t, n.Title, "Go")
	assert.Equal(t, n.Address, "https://go.dev")
	assert.Equal(t, n.Description, "")
	assert.Check(t, is.Len(f.rec.events, 0))
}

func TestModel_SetData_RejectsDecorationRoleAndStaleIndex(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t, f.goDocs)

	assert.Assert(t, !f.model.SetData(idx, "x", treemodel.RoleDecoration))

	assert.NilError(t, f.tree.Delete(f.goDocs))
	assert.Assert(t, !f.model.SetData(idx, "x", treemodel.RoleEdit))
}

func TestModel_Flags(t *testing.T) {
	f := newFixture(t)
	m := f.model

	for _, id := range []model.ID{f.dev, f.goDocs, f.news} {
		flags := m.Flags(f.index(t, id))
		assert.Assert(t, flags.Has(treemodel.FlagEditable|treemodel.FlagDragEnabled|treemodel.FlagDropEnabled))
	}
	assert.Assert(t, m.Flags(treemodel.Index{}).Has(treemodel.FlagDropEnabled))
	assert.Equal(t, m.SupportedDropActions(), treemodel.MoveAction)
	assert.DeepEqual(t, m.MimeTypes(), []string{treemodel.MimeType})
}

func TestModel_Move_ToFolder(t *testing.T) {
	f := newFixture(t)

	assert.Assert(t, f.model.Move(f.news, f.reading, 0))

	assert.Equal(t, f.model.RowCount(treemodel.Index{}), 2)
	assert.Equal(t, f.model.RowCount(f.index(t, f.reading)), 1)
	n, _ := f.tree.Node(f.news)
	assert.Equal(t, n.Parent(), f.reading)

	// Remove half is reported against the root, insert half against Reading.
	assert.DeepEqual(t, f.rec.events, []string{
		fmt.Sprintf("begin-remove %s 2-2", ""),
		"end-remove",
		fmt.Sprintf("begin-insert %s 0-0", f.reading),
		"end-insert",
	})
	assert.NilError(t, f.tree.Validate())
}

func TestModel_Move_ToRoot(t *testing.T) {
	f := newFixture(t)

	assert.Assert(t, f.model.Move(f.rust, f.tree.Root(), 0))
	assert.DeepEqual(t, f.titles(t, f.tree.Root()), []string{"Rust", "Development", "Reading", "News"})
	assert.DeepEqual(t, f.titles(t, f.dev), []string{"Go"})
}

func TestModel_Move_RejectsAddressDestination(t *testing.T) {
	f := newFixture(t)

	assert.Assert(t, !f.model.Move(f.rust, f.news, 0))

	assert.DeepEqual(t, f.titles(t, f.dev), []string{"Go", "Rust"})
	assert.Check(t, is.Len(f.rec.events, 0))
}

func TestModel_Move_RejectsCycles(t *testing.T) {
	f := newFixture(t)
	sub, ok := f.model.InsertNode(f.index(t, f.dev), model.End, model.NewNodeParams{Kind: model.KindFolder, Title: "Sub"})
	assert.Assert(t, ok)
	f.rec.events = nil

	assert.Assert(t, !f.model.Move(f.dev, sub.Node, 0))
	assert.Assert(t, !f.model.Move(f.dev, f.dev, 0))
	assert.Assert(t, !f.model.Move(f.tree.Root(), f.reading, 0))
	assert.Check(t, is.Len(f.rec.events, 0))
	assert.NilError(t, f.tree.Validate())
}

func TestModel_Move_WithinParent(t *testing.T) {
	tests := []struct {
		name string
		node func(f *fixture) model.ID
		row  int
		want []string
	}{
		{"first to end", func(f *fixture) model.ID { return f.dev }, 3, []string{"Reading", "News", "Development"}},
		{"first to middle", func(f *fixture) model.ID { return f.dev }, 2, []string{"Reading", "Development", "News"}},
		{"last to front", func(f *fixture) model.ID { return f.news }, 0, []string{"News", "Development", "Reading"}},
		{"append", func(f *fixture) model.ID { return f.reading }, -1, []string{"Development", "News", "Reading"}},
		{"same place", func(f *fixture) model.ID { return f.reading }, 1, []string{"Development", "Reading", "News"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			assert.Assert(t, f.model.Move(tt.node(f), f.tree.Root(), tt.row))
			assert.DeepEqual(t, f.titles(t, f.tree.Root()), tt.want)
		})
	}
}

func TestModel_InsertAndRemoveRow(t *testing.T) {
	f := newFixture(t)
	readingIdx := f.index(t, f.reading)

	idx, ok := f.model.InsertNode(readingIdx, 0, model.NewNodeParams{
		Kind:    model.KindAddress,
		Title:   "Blog",
		Address: "https://blog.test",
	})
	assert.Assert(t, ok)
	assert.Equal(t, f.model.RowCount(readingIdx), 1)
	assert.Equal(t, idx.Row, 0)

	_, ok = f.model.InsertNode(f.index(t, f.news), 0, model.NewNodeParams{Kind: model.KindFolder, Title: "x"})
	assert.Assert(t, !ok, "bookmarks cannot hold children")

	assert.Assert(t, f.model.RemoveRow(f.index(t, f.dev)))
	assert.Assert(t, !f.tree.Contains(f.goDocs), "subtree goes with its folder")
	assert.DeepEqual(t, f.titles(t, f.tree.Root()), []string{"Reading", "News"})

	assert.DeepEqual(t, f.rec.events, []string{
		fmt.Sprintf("begin-insert %s 0-0", f.reading),
		"end-insert",
		"begin-remove  0-0",
		"end-remove",
	})
}

func TestLogObserver_WritesNotifications(t *testing.T) {
	var buf bytes.Buffer
	tree := model.NewTree()
	folder, err := tree.NewNode(model.NewNodeParams{Kind: model.KindFolder, Title: "A", Parent: tree.Root()})
	assert.NilError(t, err)
	leaf, err := tree.NewNode(model.NewNodeParams{Kind: model.KindAddress, Title: "B", Parent: tree.Root()})
	assert.NilError(t, err)

	m := treemodel.New(tree, treemodel.NewLogObserver(&buf))
	assert.Assert(t, m.Move(leaf, folder, 0))

	out := buf.String()
	for _, want := range []string{"begin_remove_rows", "end_remove_rows", "begin_insert_rows", "end_insert_rows", "parent=" + string(folder)} {
		assert.Assert(t, strings.Contains(out, want), "missing %q in %s", want, out)
	}

	_, isNoop := treemodel.NewLogObserver(nil).(treemodel.NoopObserver)
	assert.Assert(t, isNoop)
}
