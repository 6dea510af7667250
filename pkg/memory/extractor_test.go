package memory

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordExtractor_Extract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"long ride", "I want my Long Ride Saturday please", []string{"Prefers long ride Saturday"}},
		{"achilles", "my Achilles is sore", []string{"Avoid plyos (achilles)"}},
		{"avoid plyo", "coach: let's avoid plyometrics", []string{"Avoid plyos (achilles)"}},
		{"both", "long ride saturday, achilles tight", []string{"Prefers long ride Saturday", "Avoid plyos (achilles)"}},
		{"nothing", "felt great on the tempo run", nil},
	}
	e := NewKeywordExtractor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Extract(tc.text))
		})
	}
}

func TestKeywordExtractor_CustomRules(t *testing.T) {
	e := NewKeywordExtractor(Rule{Pattern: regexp.MustCompile(`no mornings`), Bullet: "Trains evenings"})
	assert.Equal(t, []string{"Trains evenings"}, e.Extract("No mornings for me"))
	assert.Nil(t, e.Extract("long ride saturday"))
}

func TestMergeBullets(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		candidates []string
		want       []string
	}{
		{"empty", nil, nil, []string{}},
		{"front insert", []string{"a"}, []string{"b"}, []string{"b", "a"}},
		{"dedupe existing", []string{"a", "b"}, []string{"b"}, []string{"a", "b"}},
		{"dedupe candidates", nil, []string{"x", "x"}, []string{"x"}},
		{"each candidate goes first", []string{"a"}, []string{"b", "c"}, []string{"c", "b", "a"}},
		{"cap", []string{"1", "2", "3", "4", "5", "6"}, []string{"new"}, []string{"new", "1", "2", "3", "4", "5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MergeBullets(tc.existing, tc.candidates))
		})
	}
}

func TestMergeBullets_DoesNotMutateInput(t *testing.T) {
	existing := []string{"a", "b"}
	MergeBullets(existing, []string{"c"})
	assert.Equal(t, []string{"a", "b"}, existing)
}
