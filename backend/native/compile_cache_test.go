package native

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/naga"

	"github.com/gogpu/pipeconf/gfx"
)

func fragmentWGSL(red float64) []byte {
	return fmt.Appendf(nil, `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(%.1f, 0.0, 0.0, 1.0);
}
`, red)
}

func TestCompileCacheHits(t *testing.T) {
	b := New(&captureDevice{})
	desc := &gfx.ShaderDesc{Label: "tri/vertex", Stage: gfx.StageVertex, Medium: gfx.MediumWGSL, Code: []byte(testVertexWGSL)}

	for range 3 {
		if _, err := b.CreateShader(desc); err != nil {
			t.Fatalf("CreateShader: %v", err)
		}
	}
	st := b.CompileStats()
	if st.Hits != 2 || st.Misses != 1 || st.Len != 1 {
		t.Errorf("CompileStats() = %+v, want 2 hits, 1 miss, 1 entry", st)
	}
}

func TestCompileCacheEvicts(t *testing.T) {
	c := newCompileCache(4)
	opts := naga.DefaultOptions()
	for i := range 5 {
		if _, err := c.compile("frag", fragmentWGSL(float64(i)/10), opts); err != nil {
			t.Fatalf("compile %d: %v", i, err)
		}
	}
	if st := c.stats(); st.Len != 3 {
		t.Errorf("Len = %d after overflow, want 3", st.Len)
	}

	// The most recent source survives eviction.
	if _, err := c.compile("frag", fragmentWGSL(0.4), opts); err != nil {
		t.Fatal(err)
	}
	if st := c.stats(); st.Hits != 1 {
		t.Errorf("Hits = %d, want 1", st.Hits)
	}
}

func TestCompileCacheSkipsFailures(t *testing.T) {
	c := newCompileCache(4)
	var ce *CompileError
	for range 2 {
		if _, err := c.compile("bad", []byte("fn ("), naga.DefaultOptions()); !errors.As(err, &ce) {
			t.Fatalf("compile error = %v, want *CompileError", err)
		}
	}
	if st := c.stats(); st.Len != 0 || st.Misses != 2 {
		t.Errorf("stats = %+v, want no entries and 2 misses", st)
	}
}

func TestCompileCacheDisabled(t *testing.T) {
	b := New(&captureDevice{}, WithCompileCache(0))
	desc := &gfx.ShaderDesc{Stage: gfx.StageFragment, Medium: gfx.MediumWGSL, Code: []byte(testFragmentWGSL)}
	for range 2 {
		if _, err := b.CreateShader(desc); err != nil {
			t.Fatal(err)
		}
	}
	if st := b.CompileStats(); st.Len != 0 || st.Hits != 0 {
		t.Errorf("disabled cache stats = %+v", st)
	}
}
