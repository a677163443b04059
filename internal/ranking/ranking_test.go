package ranking

import (
	"math"
	"reflect"
	"testing"
)

const eps = 1e-9

func TestTerms(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"What is the soul", []string{"what", "the", "soul"}},
		{"a an of", []string{}},
		{"Dharma  dharma\tKARMA", []string{"dharma", "karma"}},
		{"", []string{}},
		{"ṛṣ is", []string{}},
		{"धर्म ॐ ātmā", []string{"धर्म", "ātmā"}},
	}
	for _, tc := range tests {
		if got := Terms(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Terms(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLexical(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"all present", "soul body", "The SOUL is not the body", 1},
		{"half present", "soul karma", "the soul is eternal", 0.5},
		{"short diacritic term ignored", "ṛṣ dharma", "dharma", 1},
		{"substring match", "devot", "pure devotional service", 1},
		{"none present", "stoic virtue", "the soul is eternal", 0},
		{"no qualifying terms", "is a", "is a", 0},
		{"duplicates counted once", "soul soul karma", "soul", 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Lexical(Terms(tc.query), tc.text)
			if math.Abs(got-tc.want) > eps {
				t.Errorf("Lexical = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	r := Default()

	if got := r.Score(0.8, 0.5); math.Abs(got-0.71) > eps {
		t.Errorf("Score(0.8, 0.5) = %f, want 0.71", got)
	}
	if got := r.Score(1, 1); math.Abs(got-1) > eps {
		t.Errorf("Score(1, 1) = %f, want 1", got)
	}
	if got := r.Score(0, 0); got != 0 {
		t.Errorf("Score(0, 0) = %f, want 0", got)
	}
}

func TestScore_Bounded(t *testing.T) {
	r := Default()
	for v := 0.0; v <= 1.0; v += 0.05 {
		for l := 0.0; l <= 1.0; l += 0.05 {
			s := r.Score(v, l)
			if s < -eps || s > 1+eps {
				t.Fatalf("Score(%f, %f) = %f out of [0,1]", v, l, s)
			}
		}
	}
}

func TestAccept(t *testing.T) {
	r := Default()
	if r.Accept(0.29) {
		t.Error("0.29 must be rejected")
	}
	if !r.Accept(0.3) {
		t.Error("0.3 must be accepted")
	}
	if !r.Accept(0.95) {
		t.Error("0.95 must be accepted")
	}
}

func TestNew_FallsBackOnOutOfRange(t *testing.T) {
	r := New(1.5, -1)
	if r.VectorWeight() != DefaultVectorWeight || r.Threshold() != DefaultThreshold {
		t.Errorf("expected defaults, got weight=%f threshold=%f", r.VectorWeight(), r.Threshold())
	}

	r = New(0.5, 0.2)
	if r.VectorWeight() != 0.5 || r.Threshold() != 0.2 {
		t.Errorf("expected custom values, got weight=%f threshold=%f", r.VectorWeight(), r.Threshold())
	}
}
