package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	cases := map[string]int{
		"":      0,
		"a":     97,
		"ab":    3105,
		"hello": 99162322,
		"😀":     1772899,
		"cta":   98832,
	}
	for input, want := range cases {
		assert.Equal(t, want, HashString(input), "HashString(%q)", input)
	}
}

func TestHashStringMinInt32FoldsPositive(t *testing.T) {
	assert.Equal(t, 2147483648, HashString("polygenelubricants"))
}

func TestSelectVariantIndex(t *testing.T) {
	assert.Equal(t, 0, SelectVariantIndex(7, "cta", 0))
	assert.Equal(t, 0, SelectVariantIndex(7, "cta", 1))
	assert.Equal(t, 0, SelectVariantIndex(7, "cta", -3))
	assert.Equal(t, 2, SelectVariantIndex(7, "cta", 3))

	for seed := -5; seed <= 300; seed++ {
		for _, count := range []int{2, 3, 7, 10} {
			got := SelectVariantIndex(seed, "list-item", count)
			assert.GreaterOrEqual(t, got, 0)
			assert.Less(t, got, count)
		}
	}
}

func TestSelectVariantIndexDeterministic(t *testing.T) {
	first := SelectVariantIndex(7, "cta", 3)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, SelectVariantIndex(7, "cta", 3))
	}
}

func TestGenerateID(t *testing.T) {
	assert.Equal(t, "wrap-cta-8848", GenerateID(7, "cta", "wrap"))
	assert.Equal(t, GenerateID(7, "cta", "wrap"), GenerateID(7, "cta", "wrap"))
	assert.NotEqual(t, GenerateID(7, "cta", "wrap"), GenerateID(8, "cta", "wrap"))
	assert.Equal(t, "decoy--9998", GenerateID(-1, "", "decoy"))
}
