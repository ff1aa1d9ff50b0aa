package strata

import (
	"testing"

	"github.com/phanxgames/strata/geom"
)

func TestMaybeQuadtreePending(t *testing.T) {
	m := NewMaybeQuadtree(256, 1<<20)
	if m.Built() || m.Tree() != nil {
		t.Error("new cache should be pending")
	}
	if got := m.TileSize(); got != 256 {
		t.Errorf("TileSize = %d, want 256", got)
	}
	if got := m.MaxMemory(); got != 1<<20 {
		t.Errorf("MaxMemory = %d, want %d", got, 1<<20)
	}
}

func TestMaybeQuadtreeBuild(t *testing.T) {
	m := NewMaybeQuadtree(128, 0)
	tree := m.Build(geom.Sz[uint](300, 100))
	if !m.Built() || m.Tree() != tree {
		t.Fatal("Build should store the tree")
	}
	if got := m.TileSize(); got != 128 {
		t.Errorf("TileSize after Build = %d, want 128", got)
	}
	if got := tree.Clip(); got != geom.Sz[uint](300, 100) {
		t.Errorf("Clip = %v, want 300x100", got)
	}
}

func TestMaybeQuadtreeBuildTwicePanics(t *testing.T) {
	m := NewMaybeQuadtree(128, 0)
	m.Build(geom.Sz[uint](10, 10))
	expectPanic(t, "already built", func() { m.Build(geom.Sz[uint](10, 10)) })
}
