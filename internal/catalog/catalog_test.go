package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/vows/internal/domain"
)

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 20)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "20", all[19].ID)

	all[0].Text = "mutated"
	assert.Equal(t, "The unexamined life is not worth living.", All()[0].Text)
}

func TestByID(t *testing.T) {
	q, ok := ByID("3")
	require.True(t, ok)
	assert.Equal(t, "To love is to act.", q.Text)
	assert.Equal(t, "Victor Hugo", q.Author)

	_, ok = ByID("999")
	assert.False(t, ok)

	_, ok = ByID("")
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	love := ByCategory("love")
	require.Len(t, love, 8)

	for _, q := range love {
		assert.Equal(t, "love", q.Category)
	}

	assert.Equal(t, "2", love[0].ID)
	assert.Empty(t, ByCategory("Love"))
	assert.Empty(t, ByCategory("nonexistent"))
	assert.Empty(t, ByCategory(FilterAll), "exact match treats all literally")
}

func TestByAuthor(t *testing.T) {
	got := ByAuthor("Carl Jung")
	require.Len(t, got, 1)
	assert.Equal(t, "20", got[0].ID)

	assert.Empty(t, ByAuthor("carl jung"))
}

func TestAuthors(t *testing.T) {
	authors := Authors()
	assert.Len(t, authors, 20)
	assert.IsIncreasing(t, authors)
	assert.Equal(t, "Ann Landers", authors[0])
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{
		"self-knowledge",
		"love",
		"growth",
		"hope",
		"wisdom",
		"authenticity",
		"life",
		"identity",
		"courage",
		"change",
		"relationships",
	}, Categories())
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		author   string
		category string
		wantIDs  []string
	}{
		{name: "no filter", author: "", category: FilterAll, wantIDs: nil},
		{name: "category only", author: FilterAll, category: "growth", wantIDs: []string{"10", "17"}},
		{name: "author only", author: "Socrates", category: "", wantIDs: []string{"1"}},
		{name: "both match", author: "Lao Tzu", category: "love", wantIDs: []string{"7"}},
		{name: "both disjoint", author: "Lao Tzu", category: "growth", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.author, tt.category)
			if tt.wantIDs == nil {
				assert.Len(t, got, 20)
				return
			}

			ids := make([]string, 0, len(got))
			for _, q := range got {
				ids = append(ids, q.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validate(quotes))

	err := validate([]domain.Quote{{ID: "a", Text: "x"}, {ID: "a", Text: "y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate id "a"`)

	err = validate([]domain.Quote{{ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}
