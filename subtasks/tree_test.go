package subtasks

import (
	"encoding/json"
	"reflect"
	"testing"

	"goal-planner/planner-service/models"
)

func sampleTree() []models.SubtaskNode {
	return []models.SubtaskNode{
		{ID: "a", Title: "draft", Completed: true, Children: []models.SubtaskNode{
			{ID: "c", Title: "outline"},
			{ID: "d", Title: "intro", Completed: true, Children: []models.SubtaskNode{
				{ID: "e", Title: "hook"},
			}},
		}},
		{ID: "b", Title: "review", Completed: true},
	}
}

func snapshot(t *testing.T, tree []models.SubtaskNode) string {
	t.Helper()
	out, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal tree: %v", err)
	}
	return string(out)
}

func TestFlattenOrder(t *testing.T) {
	var ids []string
	for _, n := range Flatten(sampleTree()) {
		ids = append(ids, n.ID)
	}
	want := []string{"a", "c", "d", "e", "b"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Flatten order = %v, want %v", ids, want)
	}
}

func TestCounts(t *testing.T) {
	tree := sampleTree()
	if got := CountTotal(tree); got != 5 {
		t.Errorf("CountTotal = %d, want 5", got)
	}
	if got := CountCompleted(tree); got != 3 {
		t.Errorf("CountCompleted = %d, want 3", got)
	}
	if CountCompleted(tree) > CountTotal(tree) {
		t.Error("completed count exceeds total")
	}
	if CountTotal(nil) != 0 || CountCompleted(nil) != 0 {
		t.Error("empty tree should count zero")
	}
}

func TestAddChild(t *testing.T) {
	tree := sampleTree()
	before := snapshot(t, tree)

	out := AddChild(tree, "d", models.SubtaskNode{ID: "f", Title: "quote"})

	if snapshot(t, tree) != before {
		t.Error("input tree was mutated")
	}
	node, ok := FindByID(out, "d")
	if !ok {
		t.Fatal("parent d missing from result")
	}
	if len(node.Children) != 2 || node.Children[1].ID != "f" {
		t.Errorf("children of d = %+v, want e then f", node.Children)
	}
	if got := CountTotal(out); got != 6 {
		t.Errorf("CountTotal after add = %d, want 6", got)
	}
}

func TestAddChildToLeafCreatesChildren(t *testing.T) {
	out := AddChild(sampleTree(), "e", models.SubtaskNode{ID: "f", Title: "stat"})
	node, ok := FindByID(out, "e")
	if !ok {
		t.Fatal("leaf e missing from result")
	}
	if len(node.Children) != 1 || node.Children[0].ID != "f" {
		t.Errorf("children of e = %+v, want single node f", node.Children)
	}
}

func TestAddChildMissingParent(t *testing.T) {
	tree := []models.SubtaskNode{{ID: "a"}}
	out := AddChild(tree, "zzz", models.SubtaskNode{ID: "x"})
	if snapshot(t, out) != snapshot(t, tree) {
		t.Errorf("missing parent should be a no-op, got %+v", out)
	}
}

func TestRemoveByIDSubtree(t *testing.T) {
	tree := sampleTree()
	before := snapshot(t, tree)

	// Čvor d nosi podstablo veličine 2 (d i e)
	out := RemoveByID(tree, "d")

	if snapshot(t, tree) != before {
		t.Error("input tree was mutated")
	}
	if got := CountTotal(out); got != CountTotal(tree)-2 {
		t.Errorf("CountTotal after remove = %d, want %d", got, CountTotal(tree)-2)
	}
	if _, ok := FindByID(out, "d"); ok {
		t.Error("node d still present after removal")
	}
	if _, ok := FindByID(out, "e"); ok {
		t.Error("descendant e survived removal of its parent")
	}
}

func TestRemoveByIDRoot(t *testing.T) {
	out := RemoveByID(sampleTree(), "a")
	if got := CountTotal(out); got != 1 {
		t.Errorf("CountTotal after removing root subtree = %d, want 1", got)
	}
	if out[0].ID != "b" {
		t.Errorf("remaining root = %q, want b", out[0].ID)
	}
}

func TestRemoveByIDMissing(t *testing.T) {
	tree := sampleTree()
	out := RemoveByID(tree, "zzz")
	if snapshot(t, out) != snapshot(t, tree) {
		t.Error("missing id should be a no-op")
	}
}

func TestToggleByID(t *testing.T) {
	tree := sampleTree()
	before := snapshot(t, tree)

	out := ToggleByID(tree, "c")

	if snapshot(t, tree) != before {
		t.Error("input tree was mutated")
	}
	node, _ := FindByID(out, "c")
	if !node.Completed {
		t.Error("toggle did not flip completed on c")
	}
	if got := CountCompleted(out); got != CountCompleted(tree)+1 {
		t.Errorf("CountCompleted = %d, want exactly one more than %d", got, CountCompleted(tree))
	}
	if CountTotal(out) != CountTotal(tree) {
		t.Error("toggle changed the node count")
	}
}

func TestToggleDoesNotCascade(t *testing.T) {
	out := ToggleByID(sampleTree(), "a")
	parent, _ := FindByID(out, "a")
	if parent.Completed {
		t.Error("toggle did not flip parent a")
	}
	child, _ := FindByID(out, "c")
	if child.Completed {
		t.Error("toggling parent must not touch children")
	}
	deep, _ := FindByID(out, "d")
	if !deep.Completed {
		t.Error("toggling parent must not touch completed children")
	}
}

func TestToggleIdempotence(t *testing.T) {
	for _, id := range []string{"a", "e", "zzz"} {
		tree := sampleTree()
		out := ToggleByID(ToggleByID(tree, id), id)
		if snapshot(t, out) != snapshot(t, tree) {
			t.Errorf("double toggle of %q is not identity", id)
		}
	}
}
