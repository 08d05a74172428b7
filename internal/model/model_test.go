package model_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/nikbrunner/xbm/internal/model"
)

// mustNode creates a node or fails the test.
func mustNode(t *testing.T, tree *model.Tree, params model.NewNodeParams) model.ID {
	t.Helper()
	id, err := tree.NewNode(params)
	if err != nil {
		t.Fatalf("NewNode(%+v): %v", params, err)
	}
	return id
}

func folder(title string, parent model.ID) model.NewNodeParams {
	return model.NewNodeParams{Kind: model.KindFolder, Title: title, Parent: parent}
}

func bookmark(title, addr string, parent model.ID) model.NewNodeParams {
	return model.NewNodeParams{Kind: model.KindAddress, Title: title, Address: addr, Parent: parent}
}

func titles(t *testing.T, tree *model.Tree, parent model.ID) []string {
	t.Helper()
	n, err := tree.Node(parent)
	if err != nil {
		t.Fatalf("Node: %v", err)
	}
	var out []string
	for _, c := range n.Children() {
		child, _ := tree.Node(c)
		out = append(out, child.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind model.Kind
		want string
	}{
		{model.KindRoot, "root"},
		{model.KindFolder, "folder"},
		{model.KindAddress, "bookmark"},
		{model.Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}

	if !model.KindRoot.IsContainer() || !model.KindFolder.IsContainer() {
		t.Error("root and folder should be containers")
	}
	if model.KindAddress.IsContainer() {
		t.Error("bookmark should not be a container")
	}

	for _, k := range []model.Kind{model.KindRoot, model.KindFolder, model.KindAddress} {
		got, err := model.ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := model.ParseKind("separator"); !errors.Is(err, model.ErrInvalidOperation) {
		t.Errorf("ParseKind(separator) error = %v", err)
	}
}

func TestNewTree_EmptyRoot(t *testing.T) {
	tree := model.NewTree()

	root := tree.RootNode()
	if root.Kind() != model.KindRoot {
		t.Errorf("expected root kind, got %s", root.Kind())
	}
	if root.Parent() != "" {
		t.Error("root should have no parent")
	}
	if root.Len() != 0 {
		t.Errorf("expected empty root, got %d children", root.Len())
	}
	if tree.Len() != 1 {
		t.Errorf("expected 1 live node, got %d", tree.Len())
	}
}

func TestNewNode_SelfRegistersUnderParent(t *testing.T) {
	tree := model.NewTree()
	dev := mustNode(t, tree, folder("Development", tree.Root()))
	mustNode(t, tree, bookmark("Go", "https://go.dev", dev))
	mustNode(t, tree, bookmark("Rust", "https://rust-lang.org", dev))

	if got := titles(t, tree, dev); !equalStrings(got, []string{"Go", "Rust"}) {
		t.Errorf("children order = %v", got)
	}

	n, _ := tree.Node(dev)
	if n.Parent() != tree.Root() {
		t.Error("folder should point at root")
	}
}

func TestNewNode_Detached(t *testing.T) {
	tree := model.NewTree()
	id := mustNode(t, tree, bookmark("Loose", "https://example.com", ""))

	n, _ := tree.Node(id)
	if n.Parent() != "" {
		t.Error("expected detached node")
	}
	if tree.Row(id) != -1 {
		t.Errorf("detached node row should be -1, got %d", tree.Row(id))
	}
	if tree.RootNode().Len() != 0 {
		t.Error("detached node should not be under root")
	}
}

func TestNewNode_Rejects(t *testing.T) {
	tree := model.NewTree()
	existing := mustNode(t, tree, folder("A", tree.Root()))

	tests := []struct {
		name   string
		params model.NewNodeParams
		want   error
	}{
		{"root kind", model.NewNodeParams{Kind: model.KindRoot}, model.ErrInvalidOperation},
		{"unknown kind", model.NewNodeParams{Kind: model.Kind(9)}, model.ErrInvalidOperation},
		{"malformed id", model.NewNodeParams{Kind: model.KindFolder, ID: "nope"}, model.ErrInvalidOperation},
		{"duplicate id", model.NewNodeParams{Kind: model.KindFolder, ID: existing}, model.ErrInvalidOperation},
		{"unknown parent", model.NewNodeParams{Kind: model.KindFolder, Parent: "5b0e0c36-3a0e-4d8b-9d54-5f0f0a7b8c11"}, model.ErrStaleReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tree.Len()
			_, err := tree.NewNode(tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if tree.Len() != before {
				t.Error("failed create should not add nodes")
			}
		})
	}
}

func TestNewNode_KeepsSuppliedID(t *testing.T) {
	tree := model.NewTree()
	want := model.ID("0f8fad5b-d9cb-469f-a165-70867728950e")

	got := mustNode(t, tree, model.NewNodeParams{Kind: model.KindFolder, Title: "Kept", ID: want, Parent: tree.Root()})
	if got != want {
		t.Errorf("expected id %s, got %s", want, got)
	}
}

func TestInsert_MovesBetweenParents(t *testing.T) {
	tree := model.NewTree()
	a := mustNode(t, tree, folder("A", tree.Root()))
	b := mustNode(t, tree, folder("B", tree.Root()))
	x := mustNode(t, tree, bookmark("X", "https://x.test", a))

	if err := tree.Insert(b, x, model.End); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	an, _ := tree.Node(a)
	bn, _ := tree.Node(b)
	xn, _ := tree.Node(x)
	if an.Len() != 0 {
		t.Errorf("old parent should be empty, has %d", an.Len())
	}
	if bn.Len() != 1 {
		t.Errorf("new parent should have 1 child, has %d", bn.Len())
	}
	if xn.Parent() != b {
		t.Error("moved node should point at new parent")
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestInsert_IndexClamping(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"front", 0, []string{"new", "a", "b"}},
		{"middle", 1, []string{"a", "new", "b"}},
		{"end constant", model.End, []string{"a", "b", "new"}},
		{"negative", -7, []string{"a", "b", "new"}},
		{"past end", 99, []string{"a", "b", "new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := model.NewTree()
			root := tree.Root()
			mustNode(t, tree, folder("a", root))
			mustNode(t, tree, folder("b", root))
			n := mustNode(t, tree, folder("new", ""))

			if err := tree.Insert(root, n, tt.index); err != nil {
				t.Fatalf("Insert: %v", err)
			}
			if got := titles(t, tree, root); !equalStrings(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsert_ReorderWithinParent(t *testing.T) {
	tree := model.NewTree()
	root := tree.Root()
	a := mustNode(t, tree, folder("a", root))
	mustNode(t, tree, folder("b", root))
	mustNode(t, tree, folder("c", root))

	// Index is applied after detaching, so 2 lands at the end of [b c].
	if err := tree.Insert(root, a, 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := titles(t, tree, root); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Errorf("got %v", got)
	}
}

func TestInsert_RejectsCycles(t *testing.T) {
	tree := model.NewTree()
	outer := mustNode(t, tree, folder("outer", tree.Root()))
	inner := mustNode(t, tree, folder("inner", outer))

	if err := tree.Insert(inner, outer, model.End); !errors.Is(err, model.ErrCycle) {
		t.Errorf("moving into own descendant: expected ErrCycle, got %v", err)
	}
	if err := tree.Insert(outer, outer, model.End); !errors.Is(err, model.ErrCycle) {
		t.Errorf("moving into itself: expected ErrCycle, got %v", err)
	}

	// Nothing moved
	if got := titles(t, tree, tree.Root()); !equalStrings(got, []string{"outer"}) {
		t.Errorf("root children changed: %v", got)
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestInsert_RejectsRootChild(t *testing.T) {
	tree := model.NewTree()
	f := mustNode(t, tree, folder("f", tree.Root()))

	if err := tree.Insert(f, tree.Root(), model.End); !errors.Is(err, model.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	tree := model.NewTree()
	a := mustNode(t, tree, folder("a", tree.Root()))
	b := mustNode(t, tree, folder("b", tree.Root()))
	x := mustNode(t, tree, bookmark("x", "https://x.test", a))

	// Wrong parent is a contract violation
	if err := tree.Remove(b, x); !errors.Is(err, model.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}

	if err := tree.Remove(a, x); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !tree.Contains(x) {
		t.Error("removed node should stay alive")
	}
	xn, _ := tree.Node(x)
	if xn.Parent() != "" {
		t.Error("removed node should be detached")
	}

	// Removing twice fails
	if err := tree.Remove(a, x); !errors.Is(err, model.ErrInvalidOperation) {
		t.Errorf("second remove: expected ErrInvalidOperation, got %v", err)
	}
}

func TestDelete_CascadesToDescendants(t *testing.T) {
	tree := model.NewTree()
	a := mustNode(t, tree, folder("a", tree.Root()))
	sub := mustNode(t, tree, folder("sub", a))
	leaf := mustNode(t, tree, bookmark("leaf", "https://leaf.test", sub))
	keep := mustNode(t, tree, bookmark("keep", "https://keep.test", tree.Root()))

	if err := tree.Delete(a); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, id := range []model.ID{a, sub, leaf} {
		if tree.Contains(id) {
			t.Errorf("%s should be gone", id)
		}
		if _, err := tree.Node(id); !errors.Is(err, model.ErrStaleReference) {
			t.Errorf("expected ErrStaleReference for %s, got %v", id, err)
		}
	}
	if !tree.Contains(keep) {
		t.Error("sibling should survive")
	}
	if tree.Len() != 2 {
		t.Errorf("expected root + 1 node, got %d", tree.Len())
	}
	if err := tree.Delete(tree.Root()); !errors.Is(err, model.ErrInvalidOperation) {
		t.Errorf("deleting root: expected ErrInvalidOperation, got %v", err)
	}
}

func TestChildAt_IndexOf_Row(t *testing.T) {
	tree := model.NewTree()
	root := tree.Root()
	a := mustNode(t, tree, folder("a", root))
	b := mustNode(t, tree, folder("b", root))

	if id, ok := tree.ChildAt(root, 1); !ok || id != b {
		t.Errorf("ChildAt(1) = %s, %v", id, ok)
	}
	if _, ok := tree.ChildAt(root, 2); ok {
		t.Error("ChildAt past end should fail")
	}
	if _, ok := tree.ChildAt(root, -1); ok {
		t.Error("ChildAt(-1) should fail")
	}
	if tree.IndexOf(root, a) != 0 || tree.Row(b) != 1 {
		t.Error("unexpected row bookkeeping")
	}
	if tree.Row(root) != -1 {
		t.Error("root row should be -1")
	}
}

func TestWalk_DocumentOrder(t *testing.T) {
	tree := model.NewTree()
	root := tree.Root()
	a := mustNode(t, tree, folder("a", root))
	mustNode(t, tree, bookmark("a1", "https://a1.test", a))
	mustNode(t, tree, bookmark("b", "https://b.test", root))

	var got []string
	var depths []int
	err := tree.Walk(root, func(n *model.Node, depth int) error {
		got = append(got, n.Title)
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if !equalStrings(got, []string{"", "a", "a1", "b"}) {
		t.Errorf("walk order = %v", got)
	}
	wantDepths := []int{0, 1, 2, 1}
	for i := range wantDepths {
		if depths[i] != wantDepths[i] {
			t.Errorf("depth[%d] = %d, want %d", i, depths[i], wantDepths[i])
		}
	}
}

func TestPathAndLookup(t *testing.T) {
	tree := model.NewTree()
	dev := mustNode(t, tree, folder("Development", tree.Root()))
	goFolder := mustNode(t, tree, folder("Go", dev))

	if got := tree.Path(goFolder); got != "/Development/Go" {
		t.Errorf("Path = %q", got)
	}
	if got := tree.Path(tree.Root()); got != "/" {
		t.Errorf("root Path = %q", got)
	}

	tests := []struct {
		path string
		want model.ID
	}{
		{"", tree.Root()},
		{"/", tree.Root()},
		{"/Development", dev},
		{"Development/Go/", goFolder},
	}
	for _, tt := range tests {
		got, err := tree.Lookup(tt.path)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	if _, err := tree.Lookup("/Nope"); !errors.Is(err, model.ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	tree := model.NewTree()
	id := mustNode(t, tree, folder("a", tree.Root()))

	got, err := model.ParseID(string(id))
	if err != nil || got != id {
		t.Errorf("ParseID(%s) = %s, %v", id, got, err)
	}
	if _, err := model.ParseID("0xdeadbeef"); !errors.Is(err, model.ErrStaleReference) {
		t.Errorf("expected ErrStaleReference, got %v", err)
	}
}

// === Merge Tests ===

func TestMerge_SkipsDuplicateAddresses(t *testing.T) {
	dst := model.NewTree()
	mustNode(t, dst, bookmark("Existing", "https://example.com", dst.Root()))

	src := model.NewTree()
	mustNode(t, src, bookmark("Duplicate", "https://example.com", src.Root()))
	mustNode(t, src, bookmark("New Site", "https://newsite.com", src.Root()))

	added, skipped, err := dst.Merge(src, dst.Root())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if added != 1 || skipped != 1 {
		t.Errorf("added=%d skipped=%d, want 1/1", added, skipped)
	}
	if got := titles(t, dst, dst.Root()); !equalStrings(got, []string{"Existing", "New Site"}) {
		t.Errorf("got %v", got)
	}
}

func TestMerge_ReusesFolderByTitle(t *testing.T) {
	dst := model.NewTree()
	dev := mustNode(t, dst, folder("Development", dst.Root()))

	src := model.NewTree()
	srcDev := mustNode(t, src, folder("Development", src.Root()))
	mustNode(t, src, bookmark("Go", "https://go.dev", srcDev))
	other := mustNode(t, src, folder("Reading", src.Root()))
	mustNode(t, src, bookmark("Blog", "https://blog.test", other))

	added, _, err := dst.Merge(src, dst.Root())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 added, got %d", added)
	}
	if got := titles(t, dst, dst.Root()); !equalStrings(got, []string{"Development", "Reading"}) {
		t.Errorf("root = %v", got)
	}
	if got := titles(t, dst, dev); !equalStrings(got, []string{"Go"}) {
		t.Errorf("existing folder should receive the bookmark, got %v", got)
	}
	if err := dst.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestMerge_RejectsBookmarkTarget(t *testing.T) {
	dst := model.NewTree()
	leaf := mustNode(t, dst, bookmark("leaf", "https://leaf.test", dst.Root()))

	if _, _, err := dst.Merge(model.NewTree(), leaf); !errors.Is(err, model.ErrInvalidOperation) {
		t.Errorf("expected ErrInvalidOperation, got %v", err)
	}
}

// TestTree_RandomOperationsKeepInvariants runs a seeded sequence of inserts,
// removes and deletes and checks bookkeeping after every step.
func TestTree_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tree := model.NewTree()
	ids := []model.ID{tree.Root()}

	for step := 0; step < 2000; step++ {
		pick := func() model.ID { return ids[rng.IntN(len(ids))] }

		switch rng.IntN(4) {
		case 0:
			kind := model.KindFolder
			if rng.IntN(2) == 0 {
				kind = model.KindAddress
			}
			id, err := tree.NewNode(model.NewNodeParams{Kind: kind, Parent: pick()})
			if err != nil {
				t.Fatalf("step %d: NewNode: %v", step, err)
			}
			ids = append(ids, id)
		case 1:
			err := tree.Insert(pick(), pick(), rng.IntN(5)-1)
			if err != nil && !errors.Is(err, model.ErrCycle) && !errors.Is(err, model.ErrInvalidOperation) {
				t.Fatalf("step %d: Insert: %v", step, err)
			}
		case 2:
			child := pick()
			n, _ := tree.Node(child)
			if n.Parent() != "" {
				if err := tree.Remove(n.Parent(), child); err != nil {
					t.Fatalf("step %d: Remove: %v", step, err)
				}
			}
		case 3:
			if len(ids) > 1 && rng.IntN(4) == 0 {
				_ = tree.Delete(pick())
				live := ids[:0]
				for _, id := range ids {
					if tree.Contains(id) {
						live = append(live, id)
					}
				}
				ids = live
			}
		}

		if err := tree.Validate(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}
