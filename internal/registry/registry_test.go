package registry_test

import (
	"testing"

	"blockdoc/internal/registry"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		Name:            "doc/columns",
		ProvidesContext: map[string]string{"columns": "doc/columns-count"},
	})

	d := reg.Get("doc/columns")
	if d == nil {
		t.Fatal("expected descriptor to be registered")
	}
	if d.ProvidesContext["columns"] != "doc/columns-count" {
		t.Errorf("expected context mapping preserved, got %v", d.ProvidesContext)
	}
	if reg.Get("doc/unknown") != nil {
		t.Error("expected nil for unregistered type")
	}
	if !reg.Has("doc/columns") || reg.Has("doc/unknown") {
		t.Error("Has should mirror Get")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{Name: "doc/group"})

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	reg.Register(&registry.Descriptor{Name: "doc/group"})
}

func TestRegistry_ForEach(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{Name: "doc/group"})
	reg.Register(&registry.Descriptor{Name: "doc/paragraph"})

	seen := map[string]bool{}
	reg.ForEach(func(d *registry.Descriptor) { seen[d.Name] = true })
	if len(seen) != 2 || !seen["doc/group"] || !seen["doc/paragraph"] {
		t.Errorf("expected both descriptors visited, got %v", seen)
	}
}
