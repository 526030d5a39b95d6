package embed

import (
	"testing"
	"time"

	"github.com/jitmap/jitmap/internal/container"
	"github.com/jitmap/jitmap/internal/testutil"
	"github.com/jitmap/jitmap/pkg/query"
)

func tiledBytes(b byte) []byte {
	c := testutil.TiledContainer(b)
	out := make([]byte, container.BytesPerContainer)
	for i, w := range c.Words() {
		for k := 0; k < 8; k++ {
			out[i*8+k] = byte(w >> (8 * k))
		}
	}
	return out
}

func TestEvalNotScenario(t *testing.T) {
	popcount, output, err := Eval("embed_not", "!a", map[string][]byte{
		"a": tiledBytes(0x12),
	})
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	want := tiledBytes(0xED)
	for i := range output {
		if output[i] != want[i] {
			t.Fatalf("output[%d] = %#x, want %#x", i, output[i], want[i])
		}
	}
	if popcount != container.BytesPerContainer*6 {
		t.Errorf("popcount = %d, want %d", popcount, container.BytesPerContainer*6)
	}
}

func TestEvalRejectsWrongSizedInput(t *testing.T) {
	_, _, err := Eval("embed_badsize", "a", map[string][]byte{"a": []byte{1, 2, 3}})
	if err == nil {
		t.Fatal("Eval with a wrongly-sized input should have failed")
	}
}

func TestEvalWithMissingPolicy(t *testing.T) {
	popcount, output, err := EvalWithOptions("embed_missing", "empty | !empty", nil,
		WithMissingPolicy(query.MissingReplaceWithEmpty))
	if err != nil {
		t.Fatalf("EvalWithOptions failed: %v", err)
	}
	for _, b := range output {
		if b != 0xFF {
			t.Fatalf("expected an all-one output, got byte %#x", b)
		}
	}
	if popcount != container.BitsPerContainer {
		t.Errorf("popcount = %d, want %d", popcount, container.BitsPerContainer)
	}
}

func TestEvalWithPopcountDisabled(t *testing.T) {
	popcount, _, err := EvalWithOptions("embed_nopop", "a & b", map[string][]byte{
		"a": tiledBytes(0xFF),
		"b": tiledBytes(0xFF),
	}, WithPopcount(false))
	if err != nil {
		t.Fatalf("EvalWithOptions failed: %v", err)
	}
	if popcount != container.UnknownPopCount {
		t.Errorf("popcount = %d, want %d", popcount, container.UnknownPopCount)
	}
}

func TestEvalWithTimeoutExceeded(t *testing.T) {
	_, _, err := EvalWithOptions("embed_timeout", "a", map[string][]byte{"a": tiledBytes(0)},
		WithTimeout(-time.Second))
	if err == nil {
		t.Fatal("EvalWithOptions with an already-expired timeout should have failed")
	}
}

func TestEvalWithSharedExecutionContext(t *testing.T) {
	ctx := query.NewExecutionContext(0)
	defer ctx.Close()

	for i := 0; i < 2; i++ {
		_, _, err := EvalWithOptions("embed_shared", "a", map[string][]byte{"a": tiledBytes(0xAA)},
			WithExecutionContext(ctx))
		if i == 0 && err != nil {
			t.Fatalf("first EvalWithOptions failed: %v", err)
		}
		if i == 1 && err == nil {
			t.Fatal("re-registering the same query name against a shared context should have failed")
		}
	}
}
