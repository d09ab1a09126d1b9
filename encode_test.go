package folio

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	s := NewStaticProvider()
	s.Set(assetA, series([]date.Date{d1, d3}, 10, 30))
	s.Set(assetB, series([]date.Date{d2, d3}, 100, 50))
	p, err := New(context.Background(), s, []string{"A", "B"}, 10, []float64{1, 3})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := `{"horizon":10,"baseline":1,"duplicates":"reject"}
{"ticker":"A","name":"Alpha","currency":"USD","market":"US","sector":"Technology","weight":0.25}
{"ticker":"B","name":"Beta","currency":"EUR","market":"Europe","sector":"Health","weight":0.75}
{"on":"2024-01-02","prices":{"A":10,"B":100},"filled":["B"]}
{"on":"2024-01-03","prices":{"A":10,"B":100},"filled":["A"]}
{"on":"2024-01-04","prices":{"A":30,"B":50}}
`
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Encode() (-want +got):\n%s", diff)
	}
}

func TestEncodeDecode(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, []string{"A", "B", "D"}, []float64{1, 1, 1}, WithBaseline(100), WithDuplicates(IgnoreDuplicates))
	if err := p.Add(ctx, "C", 0.1, 0.2, 0.3, 0.4); err != nil {
		t.Fatalf("Add(C) error = %v", err)
	}

	var first bytes.Buffer
	if err := Encode(&first, p); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(bytes.NewReader(first.Bytes()), testProvider())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	assertUnchanged(t, decoded, p)
	if decoded.Options() != p.Options() {
		t.Errorf("Decode() options = %+v, want %+v", decoded.Options(), p.Options())
	}

	var second bytes.Buffer
	if err := Encode(&second, decoded); err != nil {
		t.Fatalf("Encode(decoded) error = %v", err)
	}
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("Encode/Decode is not stable (-first +second):\n%s", diff)
	}

	// The decoded portfolio can still be mutated.
	if err := decoded.Remove("A"); err != nil {
		t.Errorf("Remove(A) on decoded portfolio error = %v", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	p, err := Decode(strings.NewReader(`{"horizon":3,"baseline":1,"duplicates":"ignore"}`), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.Len() != 0 || p.Horizon() != 3 || p.Options().Duplicates != IgnoreDuplicates {
		t.Errorf("Decode() = %d assets, horizon %d, %v", p.Len(), p.Horizon(), p.Options().Duplicates)
	}
}

func TestDecodeErrors(t *testing.T) {
	const header = `{"horizon":10,"baseline":1,"duplicates":"reject"}` + "\n"
	const assets = `{"ticker":"A","weight":0.5}` + "\n" + `{"ticker":"B","weight":0.5}` + "\n"
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no header", "", nil},
		{"bad horizon", `{"horizon":0,"baseline":1}`, ErrInvalidHorizon},
		{"bad baseline", `{"horizon":1,"baseline":-1}`, nil},
		{"bad policy", `{"horizon":1,"baseline":1,"duplicates":"merge"}`, nil},
		{"no weight", header + `{"ticker":"A"}`, nil},
		{"weights do not sum to 1", header + `{"ticker":"A","weight":0.5}` + "\n" + `{"on":"2024-01-02","prices":{"A":1}}`, ErrInconsistentState},
		{"negative weight", header + `{"ticker":"A","weight":-1}` + "\n" + `{"ticker":"B","weight":2}`, ErrDegenerateWeights},
		{"duplicate asset", header + `{"ticker":"A","weight":0.5}` + "\n" + `{"ticker":"A","weight":0.5}`, ErrDuplicateTicker},
		{"unknown ticker", header + assets + `{"on":"2024-01-02","prices":{"A":1,"C":1}}`, ErrUnknownTicker},
		{"days out of order", header + assets + `{"on":"2024-01-03","prices":{"A":1,"B":1}}` + "\n" + `{"on":"2024-01-02","prices":{"A":1,"B":1}}`, nil},
		{"gap", header + assets + `{"on":"2024-01-02","prices":{"A":1,"B":1}}` + "\n" + `{"on":"2024-01-03","prices":{"B":1}}`, ErrInconsistentState},
		{"filled first", header + assets + `{"on":"2024-01-02","prices":{"A":1,"B":1},"filled":["A"]}`, ErrInconsistentState},
		{"seed is not the first price", header + assets + `{"on":"2024-01-02","prices":{"A":5,"B":1},"filled":["A"]}` + "\n" + `{"on":"2024-01-03","prices":{"A":1,"B":1}}`, ErrInconsistentState},
		{"fill is not the previous price", header + assets + `{"on":"2024-01-02","prices":{"A":1,"B":1}}` + "\n" + `{"on":"2024-01-03","prices":{"A":2,"B":1},"filled":["A"]}`, ErrInconsistentState},
		{"filled without price", header + assets + `{"on":"2024-01-02","prices":{"B":1},"filled":["A"]}`, ErrInconsistentState},
		{"invalid price", header + assets + `{"on":"2024-01-02","prices":{"A":0,"B":1}}`, ErrInconsistentState},
		{"no prices", header + assets, ErrInconsistentState},
		{"asset after prices", header + assets + `{"on":"2024-01-02","prices":{"A":1,"B":1}}` + "\n" + `{"ticker":"C","weight":0}`, nil},
		{"unknown line", header + `{"foo":1}`, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input), nil)
			if err == nil {
				t.Fatalf("Decode() succeeded, want error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
