package search

import (
	"testing"

	"github.com/zoenutrition/zoe/test/testutils"
)

func BenchmarkRelevanceScorer(b *testing.B) {
	items := testutils.NewFoodFactory(11).Items(1000)
	query := NewQuery("fresh green beans with rice")
	scorer := RelevanceScorer{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, item := range items {
			scorer.Score(item, query)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Tokenize("What should I eat for breakfast if I have type 2 diabetes and a small budget?")
	}
}
