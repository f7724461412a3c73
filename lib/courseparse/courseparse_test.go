package courseparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		raw    string
		expect Code
	}{
		{
			raw:    "BUS4 91L (Section 80)",
			expect: Code{Subject: "BUS4", Course: "91L", SectionText: "80"},
		},
		{
			raw:    "ENGR10",
			expect: Code{Subject: "ENGR", Course: "10"},
		},
		{
			raw:    "AAS 33A - 02",
			expect: Code{Subject: "AAS", Course: "33A", SectionText: "02"},
		},
		{
			raw:    "CS 147",
			expect: Code{Subject: "CS", Course: "147"},
		},
		{
			raw:    "cs 147",
			expect: Code{Subject: "CS", Course: "147"},
		},
		{
			raw:    "NURS 25 Sec 3",
			expect: Code{Subject: "NURS", Course: "25", SectionText: "3"},
		},
		{
			raw:    "MATH 30P (02)",
			expect: Code{Subject: "MATH", Course: "30P", SectionText: "02"},
		},
		{
			raw:    "  PHYS   50   ",
			expect: Code{Subject: "PHYS", Course: "50"},
		},
		{
			raw:    "CHEM 1A-80",
			expect: Code{Subject: "CHEM", Course: "1A", SectionText: "80"},
		},
		{
			// no digit boundary: everything becomes the subject
			raw:    "HONORS",
			expect: Code{Subject: "HONORS"},
		},
		{
			raw:    "",
			expect: Code{},
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, Split(test.raw), "input: %q", test.raw)
	}
}

func TestSplitIdempotent(t *testing.T) {
	inputs := []string{"CS 147", "BUS4 91L", "ENGR 10", "AAS 33A"}
	for _, raw := range inputs {
		first := Split(raw)
		again := Split(first.Subject + " " + first.Course)
		require.Equal(t, first, again, "input: %q", raw)
	}
}

func TestSplitStripsOnlyOneSuffix(t *testing.T) {
	// only the trailing annotation goes, the dashed course survives
	got := Split("CHEM 1A-80 (Section 80)")
	require.Equal(t, "CHEM", got.Subject)
	require.Equal(t, "1A-80", got.Course)
	require.Equal(t, "80", got.SectionText)
}
