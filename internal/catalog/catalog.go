// Package catalog holds the bundled philosopher quotes.
//
// The catalog is immutable process-wide state. Every accessor returns fresh
// slices, so callers may modify what they receive.
package catalog

import (
	"fmt"
	"slices"

	"github.com/jsamuelsen/vows/internal/domain"
)

// FilterAll disables filtering on an axis when passed to Filter.
const FilterAll = "all"

var quotes = []domain.Quote{
	{
		ID:       "1",
		Text:     "The unexamined life is not worth living.",
		Author:   "Socrates",
		Period:   "Ancient Greece (469-399 BCE)",
		Category: "self-knowledge",
	},
	{
		ID:       "2",
		Text:     "Love is composed of a single soul inhabiting two bodies.",
		Author:   "Aristotle",
		Period:   "Ancient Greece (384-322 BCE)",
		Category: "love",
	},
	{
		ID:       "3",
		Text:     "To love is to act.",
		Author:   "Victor Hugo",
		Period:   "France (1802-1885)",
		Category: "love",
	},
	{
		ID: "4",
		Text: "We must love them both, those whose opinions we share and those whose opinions we reject. " +
			"For both have labored in the search for truth, and both have helped us in finding it.",
		Author:   "Thomas Aquinas",
		Period:   "Medieval (1225-1274)",
		Category: "love",
	},
	{
		ID:       "5",
		Text:     "The heart has its reasons which reason knows nothing of.",
		Author:   "Blaise Pascal",
		Period:   "France (1623-1662)",
		Category: "love",
	},
	{
		ID:       "6",
		Text:     "Love is friendship that has caught fire.",
		Author:   "Ann Landers",
		Period:   "Modern (1918-2002)",
		Category: "love",
	},
	{
		ID:       "7",
		Text:     "Being deeply loved by someone gives you strength, while loving someone deeply gives you courage.",
		Author:   "Lao Tzu",
		Period:   "Ancient China (6th century BCE)",
		Category: "love",
	},
	{
		ID:       "8",
		Text:     "The best thing to hold onto in life is each other.",
		Author:   "Audrey Hepburn",
		Period:   "Modern (1929-1993)",
		Category: "love",
	},
	{
		ID: "9",
		Text: "Love is an untamed force. When we try to control it, it destroys us. " +
			"When we try to imprison it, it enslaves us. " +
			"When we try to understand it, it leaves us feeling lost and confused.",
		Author:   "Paulo Coelho",
		Period:   "Modern (1947-present)",
		Category: "love",
	},
	{
		ID:       "10",
		Text:     "We are all broken, that's how the light gets in.",
		Author:   "Ernest Hemingway",
		Period:   "Modern (1899-1961)",
		Category: "growth",
	},
	{
		ID:       "11",
		Text:     "Hope is the thing with feathers that perches in the soul.",
		Author:   "Emily Dickinson",
		Period:   "Modern (1830-1886)",
		Category: "hope",
	},
	{
		ID:       "12",
		Text:     "The art of being wise is the art of knowing what to overlook.",
		Author:   "William James",
		Period:   "Modern (1842-1910)",
		Category: "wisdom",
	},
	{
		ID:       "13",
		Text:     "To be yourself in a world that is constantly trying to make you something else is the greatest accomplishment.",
		Author:   "Ralph Waldo Emerson",
		Period:   "Modern (1803-1882)",
		Category: "authenticity",
	},
	{
		ID:       "14",
		Text:     "In three words I can sum up everything I've learned about life: it goes on.",
		Author:   "Robert Frost",
		Period:   "Modern (1874-1963)",
		Category: "life",
	},
	{
		ID:       "15",
		Text:     "Two souls, two thoughts, two unreconciled strivings; two warring ideals in one dark body.",
		Author:   "W.E.B. Du Bois",
		Period:   "Modern (1868-1963)",
		Category: "identity",
	},
	{
		ID:       "16",
		Text:     "The courage to be is the courage to accept oneself, in spite of being unacceptable.",
		Author:   "Paul Tillich",
		Period:   "Modern (1886-1965)",
		Category: "courage",
	},
	{
		ID:       "17",
		Text:     "Be patient toward all that is unsolved in your heart and try to love the questions themselves.",
		Author:   "Rainer Maria Rilke",
		Period:   "Modern (1875-1926)",
		Category: "growth",
	},
	{
		ID:       "18",
		Text:     "We must be willing to let go of the life we have planned, so as to have the life that is waiting for us.",
		Author:   "Joseph Campbell",
		Period:   "Modern (1904-1987)",
		Category: "change",
	},
	{
		ID:       "19",
		Text:     "Trust is the glue of life. It's the most essential ingredient in effective communication.",
		Author:   "Stephen Covey",
		Period:   "Modern (1932-2012)",
		Category: "relationships",
	},
	{
		ID: "20",
		Text: "The meeting of two personalities is like the contact of two chemical substances: " +
			"if there is any reaction, both are transformed.",
		Author:   "Carl Jung",
		Period:   "Modern (1875-1961)",
		Category: "relationships",
	},
}

func init() {
	if err := validate(quotes); err != nil {
		panic(err)
	}
}

// validate enforces unique IDs and non-empty text.
func validate(qs []domain.Quote) error {
	seen := make(map[string]struct{}, len(qs))

	for i, q := range qs {
		if q.Text == "" {
			return fmt.Errorf("catalog entry %d (id %q) has empty text", i, q.ID)
		}

		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("catalog entry %d has duplicate id %q", i, q.ID)
		}

		seen[q.ID] = struct{}{}
	}

	return nil
}

// All returns every quote in catalog order.
func All() []domain.Quote {
	return slices.Clone(quotes)
}

// Authors returns the distinct authors, sorted.
func Authors() []string {
	authors := make([]string, 0, len(quotes))
	for _, q := range quotes {
		authors = append(authors, q.Author)
	}

	slices.Sort(authors)

	return slices.Compact(authors)
}

// Categories returns the distinct categories in first-seen order.
// Quotes without a category contribute nothing.
func Categories() []string {
	var categories []string

	for _, q := range quotes {
		if q.HasCategory() && !slices.Contains(categories, q.Category) {
			categories = append(categories, q.Category)
		}
	}

	return categories
}

// ByCategory returns the quotes whose category equals category exactly.
func ByCategory(category string) []domain.Quote {
	return match(func(q domain.Quote) bool { return q.Category == category })
}

// ByAuthor returns the quotes whose author equals author exactly.
func ByAuthor(author string) []domain.Quote {
	return match(func(q domain.Quote) bool { return q.Author == author })
}

// ByID returns the first quote with the given id.
func ByID(id string) (domain.Quote, bool) {
	i := slices.IndexFunc(quotes, func(q domain.Quote) bool { return q.ID == id })
	if i < 0 {
		return domain.Quote{}, false
	}

	return quotes[i], true
}

// Filter returns the quotes matching both author and category. An empty
// value or FilterAll leaves that axis unfiltered.
func Filter(author, category string) []domain.Quote {
	return match(func(q domain.Quote) bool {
		return (isWildcard(author) || q.Author == author) &&
			(isWildcard(category) || q.Category == category)
	})
}

func match(keep func(domain.Quote) bool) []domain.Quote {
	result := make([]domain.Quote, 0, len(quotes))

	for _, q := range quotes {
		if keep(q) {
			result = append(result, q)
		}
	}

	return result
}

func isWildcard(v string) bool {
	return v == "" || v == FilterAll
}
