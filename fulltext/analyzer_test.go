package fulltext

import (
	"reflect"
	"testing"
)

func TestAnalyzeDefaultPipeline(t *testing.T) {
	got := Analyze("The Quick Brown Fox Jumps!")
	want := []string{"quick", "brown", "fox", "jump"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze() = %v, want %v", got, want)
	}
}

func TestAnalyzeWithConfigNoStemming(t *testing.T) {
	cfg := AnalyzerConfig{MinTokenLength: 2, EnableStopwords: true, EnableStemming: false}
	got := AnalyzeWithConfig("Running dogs", cfg)
	want := []string{"running", "dogs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnalyzeWithConfig() = %v, want %v", got, want)
	}
}

func TestTokenSetDeduplicates(t *testing.T) {
	got := TokenSet("run run running runs")
	for i, tok := range got {
		for j, other := range got {
			if i != j && tok == other {
				t.Fatalf("TokenSet() contains duplicate %q: %v", tok, got)
			}
		}
	}
}
