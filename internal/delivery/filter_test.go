package delivery

import "testing"

func TestFilterEval(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		attrs map[string]string
		size  int
		topic string
		want  bool
	}{
		{name: "empty expression admits all", expr: "", want: true},
		{name: "attribute match", expr: `attributes["kind"] == "order"`, attrs: map[string]string{"kind": "order"}, want: true},
		{name: "attribute mismatch", expr: `attributes["kind"] == "order"`, attrs: map[string]string{"kind": "audit"}, want: false},
		{name: "missing attribute rejects", expr: `attributes["kind"] == "order"`, want: false},
		{name: "size bound", expr: "size < 1024", size: 512, want: true},
		{name: "size bound exceeded", expr: "size < 1024", size: 2048, want: false},
		{name: "topic match", expr: `topic == "orders"`, topic: "orders", want: true},
		{name: "compound", expr: `topic == "orders" && size > 0`, topic: "orders", size: 1, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.expr)
			if err != nil {
				t.Fatalf("compile %q: %v", tc.expr, err)
			}
			if got := f.Eval(tc.topic, tc.attrs, tc.size); got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestFilterCompileErrors(t *testing.T) {
	for _, expr := range []string{
		"attributes[", // syntax error
		"unknown_var == 1",
		`size == "ten"`, // type mismatch
	} {
		if _, err := NewFilter(expr); err == nil {
			t.Fatalf("NewFilter(%q) compiled", expr)
		}
	}
}
