package admin

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotZeroDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "x")

	if got := Snapshot(dir, 0); len(got) != 0 {
		t.Errorf("Snapshot with depth 0 = %v, want empty", got)
	}
	if got := Snapshot(dir, -1); len(got) != 0 {
		t.Errorf("Snapshot with negative depth = %v, want empty", got)
	}
}

func TestSnapshotNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "x")

	if got := Snapshot(file, 3); len(got) != 0 {
		t.Errorf("Snapshot of a file = %v, want empty", got)
	}
	if got := Snapshot(filepath.Join(dir, "missing"), 3); len(got) != 0 {
		t.Errorf("Snapshot of missing path = %v, want empty", got)
	}
}

func TestSnapshotOrderingAndSizes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zebra.txt"), "12345")
	writeFile(t, filepath.Join(dir, "alpha.txt"), "1")
	if err := os.MkdirAll(filepath.Join(dir, "ws"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0755); err != nil {
		t.Fatal(err)
	}

	nodes := Snapshot(dir, 3)
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(nodes))
	}

	wantOrder := []string{"bin", "ws", "alpha.txt", "zebra.txt"}
	for i, want := range wantOrder {
		if nodes[i].Name != want {
			t.Errorf("nodes[%d] = %q, want %q", i, nodes[i].Name, want)
		}
	}

	if nodes[0].Type != "dir" || nodes[0].Size != nil {
		t.Errorf("dir node has unexpected shape: %+v", nodes[0])
	}
	if nodes[3].Type != "file" || nodes[3].Size == nil || *nodes[3].Size != 5 {
		t.Errorf("file node has unexpected shape: %+v", nodes[3])
	}
}

func TestSnapshotDepthBound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "l1", "l2", "l3", "deep.txt"), "x")

	nodes := Snapshot(dir, 2)

	// Depth 1: l1. Depth 2: l2. l2's children must be empty because the
	// budget is exhausted before l3 is listed.
	if len(nodes) != 1 || nodes[0].Name != "l1" {
		t.Fatalf("unexpected root level: %+v", nodes)
	}
	l1 := nodes[0]
	if len(l1.Children) != 1 || l1.Children[0].Name != "l2" {
		t.Fatalf("unexpected l1 children: %+v", l1.Children)
	}
	if len(l1.Children[0].Children) != 0 {
		t.Errorf("depth bound exceeded: l2 children = %+v", l1.Children[0].Children)
	}
}

func TestSnapshotExcludesCacheEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".cache", "blob"), "x")
	writeFile(t, filepath.Join(dir, ".cache-tmp"), "x")
	writeFile(t, filepath.Join(dir, "kept.txt"), "x")

	nodes := Snapshot(dir, 3)
	if len(nodes) != 1 || nodes[0].Name != "kept.txt" {
		t.Errorf("cache entries not excluded: %+v", nodes)
	}
}

func TestSnapshotUnreadableSubtree(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	writeFile(t, filepath.Join(locked, "secret.txt"), "x")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	nodes := Snapshot(dir, 3)
	if len(nodes) != 1 || nodes[0].Name != "locked" {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
	if len(nodes[0].Children) != 0 {
		t.Errorf("unreadable subtree should be empty, got %+v", nodes[0].Children)
	}
}
