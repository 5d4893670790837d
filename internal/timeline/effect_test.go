package timeline_test

import (
	"testing"

	"reelcut/internal/timeline"
)

func TestPayloadMergePreservesSiblings(t *testing.T) {
	base := timeline.Payload{
		"scale": 2.0,
		"target": map[string]any{
			"x": 0.25,
			"y": 0.75,
		},
		"followMode": "mouse",
	}
	patch := timeline.Payload{
		"target": map[string]any{"x": 0.5},
		"scale":  3.0,
	}

	merged := base.Merge(patch)

	if got, _ := merged.Float("scale"); got != 3.0 {
		t.Fatalf("expected scale 3, got %v", got)
	}
	target, ok := merged["target"].(map[string]any)
	if !ok {
		t.Fatalf("expected target map, got %T", merged["target"])
	}
	if target["x"] != 0.5 || target["y"] != 0.75 {
		t.Fatalf("expected nested merge, got %#v", target)
	}
	if merged["followMode"] != "mouse" {
		t.Fatalf("expected sibling followMode kept, got %#v", merged["followMode"])
	}
	if base["scale"] != 2.0 {
		t.Fatal("merge mutated the receiver")
	}
	if base["target"].(map[string]any)["x"] != 0.25 {
		t.Fatal("merge mutated nested receiver map")
	}
}

func TestPayloadDecodeTypedView(t *testing.T) {
	payload, err := timeline.PayloadOf(timeline.ZoomData{Scale: 2, TargetX: 0.4, TargetY: 0.6})
	if err != nil {
		t.Fatalf("PayloadOf: %v", err)
	}
	var zoom timeline.ZoomData
	if err := payload.Decode(&zoom); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if zoom.Scale != 2 || zoom.TargetX != 0.4 || zoom.TargetY != 0.6 {
		t.Fatalf("unexpected zoom view: %#v", zoom)
	}
}

func TestSingletonTypes(t *testing.T) {
	cases := map[timeline.EffectType]bool{
		timeline.EffectBackground: true,
		timeline.EffectCursor:     true,
		timeline.EffectKeystroke:  true,
		timeline.EffectZoom:       false,
		timeline.EffectScreen:     false,
		timeline.EffectAnnotation: false,
	}
	for kind, want := range cases {
		if got := kind.Singleton(); got != want {
			t.Fatalf("%s: Singleton() = %v, want %v", kind, got, want)
		}
	}
}
