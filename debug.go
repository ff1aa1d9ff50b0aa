package strata

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/phanxgames/strata/internal/logging"
)

// globalDebug enables tree sanity warnings on every attach.
var globalDebug atomic.Bool

// SetDebugMode turns tree sanity warnings on or off. Warnings go to the
// logger installed with SetLogger.
func SetDebugMode(enabled bool) {
	globalDebug.Store(enabled)
}

// DebugMode reports whether tree sanity warnings are on.
func DebugMode() bool {
	return globalDebug.Load()
}

const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugCheckAttach warns when an attach makes the tree unusually deep or a
// child list unusually long.
func (c *ContainerLayer) debugCheckAttach(child Layer) {
	if !globalDebug.Load() {
		return
	}
	depth := 0
	for p := child; p != nil; p = ParentOf(p) {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logging.Logger().Warn("strata: tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "kind", child.Kind().String())
	}
	if c.numChildren > debugMaxChildCount {
		logging.Logger().Warn("strata: child count exceeds threshold",
			"children", c.numChildren, "threshold", debugMaxChildCount, "kind", c.owner.Kind().String())
	}
}

// DumpTree writes an indented outline of the tree rooted at l, one layer per
// line.
func DumpTree(w io.Writer, l Layer) error {
	return dumpTree(w, l, 0)
}

func dumpTree(w io.Writer, l Layer, depth int) error {
	line := describe(l)
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), line); err != nil {
		return err
	}
	c := containerOf(l)
	if c == nil {
		return nil
	}
	for child := range c.Children() {
		if err := dumpTree(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describe(l Layer) string {
	switch v := l.(type) {
	case *CompositorLayer:
		size, ok := v.PageSize()
		if !ok {
			return fmt.Sprintf("%v page=pending hidden=%t", v, v.hidden)
		}
		return fmt.Sprintf("%v page=%gx%g hidden=%t tiles=%d", v, size.Width, size.Height, v.hidden, v.quadtreeLen())
	case *TextureLayer:
		return fmt.Sprintf("TextureLayer(%dx%d flip=%d)", v.size.Width, v.size.Height, v.Flip)
	case *ContainerLayer:
		if r, ok := v.Scissor(); ok {
			return fmt.Sprintf("ContainerLayer(children=%d scissor=%v)", v.numChildren, r)
		}
		return fmt.Sprintf("ContainerLayer(children=%d)", v.numChildren)
	default:
		return l.Kind().String()
	}
}

func (c *CompositorLayer) quadtreeLen() int {
	if tree := c.quadtree.Tree(); tree != nil {
		return tree.Len()
	}
	return 0
}
