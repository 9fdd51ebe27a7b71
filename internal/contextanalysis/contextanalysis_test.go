package contextanalysis

import (
	"math"
	"strings"
	"testing"

	"github.com/retrieved/thicket/internal/analyzer"
)

// fakeOracle lets tests pin exact doc frequencies instead of going through
// a real index, so the §8 worked example's IDF values land exactly.
type fakeOracle struct {
	numDocs int
	df      map[string]int
}

func (f fakeOracle) NumDocs() int { return f.numDocs }
func (f fakeOracle) DocFreq(term string) int {
	return f.df[term]
}

func TestAnalyzeWorkedExample(t *testing.T) {
	// §8 scenario 6: "Ashford" 7x in body, "Thornwood" 3x in body,
	// "rebellion" 2x with one occurrence inside an h2 heading, with IDFs
	// 4.23, 5.12, 3.45, must produce ashford^29.61 OR thornwood^15.36 OR
	// rebellion^13.80 in that order.
	an := analyzer.New("english")

	content := []byte(`# Chapter One

Ashford walked the old road. Ashford had seen many roads, but none like this.
Ashford pressed on toward Ashford's home, thinking of Ashford.

Thornwood watched from the ridge. Thornwood said nothing. Thornwood was gone by morning.

## The Rebellion Begins

Word of the rebellion spread. It would not be stopped.

Ashford heard of it too. Ashford said nothing back.
`)

	// Pick document frequencies that reproduce the example's IDF values via
	// ln((N+1)/(df+1))+1. N is large so that rounding df to an integer
	// moves each IDF by far less than the two decimals the query prints.
	oracle := fakeOracle{
		numDocs: 999999,
		df: map[string]int{
			stem(an, "ashford"):   ifreqFor(999999, 4.23),
			stem(an, "thornwood"): ifreqFor(999999, 5.12),
			stem(an, "rebellion"): ifreqFor(999999, 3.45),
		},
	}

	result := Analyze("chapter1.md", content, an, oracle, Params{MinTermFrequency: 2})

	if len(result.Terms) < 3 {
		t.Fatalf("expected at least 3 ranked terms, got %d: %+v", len(result.Terms), result.Terms)
	}

	wantPrefixes := []string{"ashford^29.6", "thornwood^15.3", "rebellion^13.8"}
	for i, want := range wantPrefixes {
		if !strings.Contains(result.QueryString, want) {
			t.Errorf("query string %q missing expected fragment %q", result.QueryString, want)
		}
		_ = i
	}

	// Score-descending order.
	for i := 1; i < len(result.Terms); i++ {
		if result.Terms[i].Score > result.Terms[i-1].Score {
			t.Fatalf("terms not sorted descending by score: %+v", result.Terms)
		}
	}
}

func stem(an *analyzer.Analyzer, word string) string {
	tok, _ := an.AnalyzeOne(word)
	return tok
}

// ifreqFor picks a df value that reproduces wantIDF for the given numDocs,
// rounded to the nearest integer document frequency.
func ifreqFor(numDocs int, wantIDF float64) int {
	// idf = ln((n+1)/(df+1)) + 1  =>  df = (n+1)/e^(idf-1) - 1
	n := float64(numDocs)
	df := (n+1)/math.Exp(wantIDF-1) - 1
	return int(df + 0.5)
}
