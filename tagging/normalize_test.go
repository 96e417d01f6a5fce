package tagging

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cash", "Cash"},
		{"  Cash  ", "Cash"},
		{"#Cash", "Cash"},
		{"~ #Cash", "Cash"},
		{"- Do  it yourself", "Do it yourself"},
		{"3D printing", "3D printing"},
		{"#", ""},
		{"", ""},
		{"Café", "Café"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Cleanup(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Cleanup(got), "Cleanup must be idempotent")
		})
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"Cash", "Gold", "cash", "CASH", "Gold", "Silver"})
	assert.Equal(t, []string{"Cash", "Gold", "Silver"}, got)

	assert.Equal(t, []string{}, Dedupe(nil))
}

func TestCollapseNumericRuns(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "covid run",
			in:   []string{"Covid 19", "Covid 20", "Covid 21", "Do it yourself", "Cash"},
			want: []string{"Covid 19", "Do it yourself", "Cash"},
		},
		{
			name: "non-consecutive runs are unaffected",
			in:   []string{"Covid 19", "Cash", "Covid 20"},
			want: []string{"Covid 19", "Cash", "Covid 20"},
		},
		{
			name: "decreasing number is kept",
			in:   []string{"Web 3", "Web 2"},
			want: []string{"Web 3", "Web 2"},
		},
		{
			name: "collapse compares against previous kept tag",
			in:   []string{"Item 1", "Item 5", "Item 3"},
			want: []string{"Item 1"},
		},
		{
			name: "base comparison ignores case",
			in:   []string{"Covid 19", "COVID 20"},
			want: []string{"Covid 19"},
		},
		{
			name: "no space before number",
			in:   []string{"Covid19", "Covid20"},
			want: []string{"Covid19"},
		},
		{
			name: "bare numbers have no base",
			in:   []string{"2019", "2020"},
			want: []string{"2019", "2020"},
		},
		{
			name: "unnumbered base does not start a run",
			in:   []string{"Covid", "Covid 19"},
			want: []string{"Covid", "Covid 19"},
		},
		{
			name: "different bases",
			in:   []string{"Apollo 11", "Gemini 12"},
			want: []string{"Apollo 11", "Gemini 12"},
		},
		{
			name: "empty",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseNumericRuns(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CollapseNumericRuns(got), "collapse must be idempotent")
		})
	}
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(NewGate(DefaultConfig()))

	got := n.Normalize([]string{"#Covid 19", "Covid 20", "", "~Quantum Origami", "covid 19", "Do it yourself", "Cash", "  "})
	assert.Equal(t, []string{"Covid 19", "Do it yourself", "Cash"}, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(NewGate(DefaultConfig()))
	rng := rand.New(rand.NewSource(7))
	pool := []string{"Covid", "Web", "Apollo", "Cash", "#Gold", "gold", "Quantum Origami", "~", "Do it yourself"}

	for i := 0; i < 500; i++ {
		in := make([]string, rng.Intn(10))
		for j := range in {
			tag := pool[rng.Intn(len(pool))]
			if rng.Intn(2) == 0 {
				tag = fmt.Sprintf("%s %d", tag, rng.Intn(30))
			}
			in[j] = tag
		}

		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
		for _, tag := range once {
			assert.False(t, n.gate.IsExemplar(tag), "exemplar %q survived normalization", tag)
		}
	}
}
