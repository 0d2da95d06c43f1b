package history

import (
	"testing"

	"bitpaint/bitmap"
)

func TestUndoRedo(t *testing.T) {
	b, _ := bitmap.New(2, 2)
	r := New(10)

	r.Save(b)
	b.Set(0, 0, 1)
	r.Save(b)
	b.Set(1, 1, 1)
	r.Save(b)

	if !r.Undo(b) {
		t.Fatal("Undo returned false")
	}
	if b.Get(1, 1) != 0 || b.Get(0, 0) != 1 {
		t.Errorf("after one undo pixels = %v", b.Pix)
	}
	if !r.Undo(b) {
		t.Fatal("second Undo returned false")
	}
	if b.Count() != 0 {
		t.Errorf("after two undos count = %d, want 0", b.Count())
	}
	if r.Undo(b) {
		t.Error("Undo past the first snapshot succeeded")
	}

	if !r.Redo(b) || !r.Redo(b) {
		t.Fatal("Redo returned false")
	}
	if b.Count() != 2 {
		t.Errorf("after redo count = %d, want 2", b.Count())
	}
	if r.Redo(b) {
		t.Error("Redo past the last snapshot succeeded")
	}
}

func TestSaveDiscardsRedo(t *testing.T) {
	b, _ := bitmap.New(1, 1)
	r := New(4)

	r.Save(b)
	b.Set(0, 0, 1)
	r.Save(b)
	r.Undo(b)
	r.Save(b)

	if r.CanRedo() {
		t.Error("CanRedo after Save, want false")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestEviction(t *testing.T) {
	b, _ := bitmap.New(8, 1)
	r := New(3)

	for x := range 8 {
		b.Set(x, 0, 1)
		r.Save(b)
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	undos := 0
	for r.Undo(b) {
		undos++
	}
	if undos != 2 {
		t.Errorf("undos = %d, want 2", undos)
	}
	// oldest kept snapshot has the first six pixels set
	if got := b.Count(); got != 6 {
		t.Errorf("oldest snapshot count = %d, want 6", got)
	}
}

func TestRestoreSize(t *testing.T) {
	b, _ := bitmap.New(2, 2)
	r := New(2)
	r.Save(b)

	if err := b.Resize(4, 3); err != nil {
		t.Fatal(err)
	}
	r.Save(b)
	r.Undo(b)

	if b.W != 2 || b.H != 2 || len(b.Pix) != 4 {
		t.Errorf("restored size = %dx%d len %d, want 2x2 len 4", b.W, b.H, len(b.Pix))
	}
}
