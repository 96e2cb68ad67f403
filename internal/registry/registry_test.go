package registry

import (
	"testing"

	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

type testShape struct {
	id string
}

func (s testShape) ID() string    { return s.id }
func (s testShape) Title() string { return "Test " + s.id }
func (s testShape) Curve() *terrain.Curve {
	return terrain.NewCurve(terrain.Keyframe{Time: 0, Value: 1}, terrain.Keyframe{Time: 1, Value: 0})
}

func TestRegisterAndCreate(t *testing.T) {
	Register("registry-test-a", func() Shape { return testShape{"registry-test-a"} })

	if !Exists("registry-test-a") {
		t.Fatal("expected shape to exist after Register")
	}
	s, err := Create("registry-test-a")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID() != "registry-test-a" {
		t.Errorf("ID() = %q", s.ID())
	}

	c1, err := Curve("registry-test-a")
	if err != nil {
		t.Fatalf("Curve failed: %v", err)
	}
	c2, _ := Curve("registry-test-a")
	c1.Keys[0].Value = 42
	if c2.Keys[0].Value == 42 {
		t.Error("each Curve call should return an independent curve")
	}

	found := false
	for _, info := range List() {
		if info.ID == "registry-test-a" {
			found = true
			if info.Title != "Test registry-test-a" || info.Keys != 2 {
				t.Errorf("info = %+v", info)
			}
		}
	}
	if !found {
		t.Error("List() is missing the registered shape")
	}
}

func TestCreateUnknown(t *testing.T) {
	if Exists("no-such-shape") {
		t.Fatal("unexpected shape")
	}
	if _, err := Create("no-such-shape"); err == nil {
		t.Error("expected error for unknown shape")
	}
	if _, err := Curve("no-such-shape"); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("registry-test-dup", func() Shape { return testShape{"registry-test-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("registry-test-dup", func() Shape { return testShape{"registry-test-dup"} })
}

func TestListSorted(t *testing.T) {
	Register("registry-test-z", func() Shape { return testShape{"registry-test-z"} })
	Register("registry-test-m", func() Shape { return testShape{"registry-test-m"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
