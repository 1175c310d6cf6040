package fake_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

func TestCategoryLookup(t *testing.T) {
	catalog := fake.NewSeededCatalog(1)

	cat, err := catalog.Category("ipv4_public")
	require.NoError(t, err)
	assert.Equal(t, "ipv4_public", cat.Name)
	assert.Equal(t, fake.KindString, cat.Kind)

	value, ok := cat.Value().(string)
	require.True(t, ok, "ipv4_public should generate strings")
	assert.NotEmpty(t, value)
}

func TestCategoryLookupUnsupported(t *testing.T) {
	catalog := fake.NewSeededCatalog(1)

	cat, err := catalog.Category("cheesecake")
	assert.Nil(t, cat)
	require.Error(t, err)

	var unsupported *fake.UnsupportedCategoryError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "cheesecake", unsupported.Name)
	assert.Contains(t, err.Error(), "cheesecake")
}

func TestCategoryValueKinds(t *testing.T) {
	catalog := fake.NewSeededCatalog(1)

	for _, name := range catalog.Names() {
		cat, err := catalog.Category(name)
		require.NoError(t, err, name)

		value := cat.Value()
		switch cat.Kind {
		case fake.KindInteger:
			assert.IsType(t, int(0), value, name)
		case fake.KindFloat:
			assert.IsType(t, float64(0), value, name)
		default:
			// Datetime values are pre-formatted strings so drivers bind
			// them uniformly.
			assert.IsType(t, "", value, name)
			assert.NotEmpty(t, value, name)
		}
	}
}

func TestNamesSortedAndStable(t *testing.T) {
	catalog := fake.NewSeededCatalog(1)

	names := catalog.Names()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, names, catalog.Names())

	// The identifiers the bare-string column notation depends on.
	for _, expected := range []string{"ipv4_public", "ipv4_private", "email", "user_name", "first_name", "last_name"} {
		assert.Contains(t, names, expected)
	}

	// Reserved notation keywords must never double as categories.
	for _, reserved := range []string{"empty", "unique_login", "unique_email", "truncate"} {
		assert.NotContains(t, names, reserved)
	}
}

func TestDateFormats(t *testing.T) {
	catalog := fake.NewSeededCatalog(1)

	date, err := catalog.Category("date")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, date.Value())

	dateTime, err := catalog.Category("date_time")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, dateTime.Value())
}
