package fake

import (
	"fmt"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/samber/lo"
)

// Kind describes the SQL-facing shape of a category's values. The dialect
// layer maps kinds to seed table column types.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDateTime:
		return "datetime"
	default:
		return "string"
	}
}

// Category is a resolved fake data category. The strategy parser binds these
// handles into column strategies at compile time; Value is only invoked later,
// when the engine populates the seed table.
type Category struct {
	Name  string
	Kind  Kind
	Value func() any
}

// UnsupportedCategoryError reports a category identifier the catalog does not
// recognize. Callers surface it as-is; it is never reclassified.
type UnsupportedCategoryError struct {
	Name string
}

func NewUnsupportedCategoryError(name string) *UnsupportedCategoryError {
	return &UnsupportedCategoryError{Name: name}
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("unsupported fake category %q", e.Name)
}

// Catalog resolves category identifiers to value generators. All categories
// are registered up front; lookups are read-only and safe to repeat.
type Catalog struct {
	categories map[string]*Category
}

// NewCatalog returns a catalog backed by a randomly seeded faker.
func NewCatalog() *Catalog {
	return NewSeededCatalog(0)
}

// NewSeededCatalog returns a catalog with a fixed faker seed, for
// reproducible value streams. A seed of 0 picks a random one.
func NewSeededCatalog(seed int64) *Catalog {
	return &Catalog{categories: register(gofakeit.New(seed))}
}

// Category returns the handle for the given identifier, or an
// UnsupportedCategoryError when the identifier is not recognized.
func (c *Catalog) Category(name string) (*Category, error) {
	if cat, ok := c.categories[name]; ok {
		return cat, nil
	}
	return nil, NewUnsupportedCategoryError(name)
}

// Names returns all supported category identifiers, sorted.
func (c *Catalog) Names() []string {
	names := lo.Keys(c.categories)
	sort.Strings(names)
	return names
}

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

func register(f *gofakeit.Faker) map[string]*Category {
	reg := make(map[string]*Category)

	add := func(name string, kind Kind, value func() any) {
		reg[name] = &Category{Name: name, Kind: kind, Value: value}
	}
	str := func(name string, fn func() string) {
		add(name, KindString, func() any { return fn() })
	}

	// Identity
	str("first_name", f.FirstName)
	str("last_name", f.LastName)
	str("name", f.Name)
	str("user_name", f.Username)
	str("email", f.Email)
	str("phone_number", f.Phone)
	str("ssn", f.SSN)
	add("date_of_birth", KindDateTime, func() any {
		now := time.Now()
		return f.DateRange(now.AddDate(-80, 0, 0), now.AddDate(-18, 0, 0)).Format(dateFormat)
	})
	add("password", KindString, func() any {
		return f.Password(true, true, true, false, false, 16)
	})

	// Location
	str("street_address", f.Street)
	str("street_name", f.StreetName)
	str("city", f.City)
	str("state", f.State)
	str("country", f.Country)
	str("country_code", f.CountryAbr)
	str("postcode", f.Zip)
	str("zipcode", f.Zip)
	str("timezone", f.TimeZone)
	add("latitude", KindFloat, func() any { return f.Latitude() })
	add("longitude", KindFloat, func() any { return f.Longitude() })

	// Business
	str("company", f.Company)
	str("company_suffix", f.CompanySuffix)
	str("job", f.JobTitle)
	str("currency_code", f.CurrencyShort)
	add("credit_card_number", KindString, func() any { return f.CreditCardNumber(nil) })
	add("price", KindFloat, func() any { return f.Price(0.99, 9999.99) })

	// Network
	str("ipv4_public", f.IPv4Address)
	add("ipv4_private", KindString, func() any {
		return fmt.Sprintf("10.%d.%d.%d", f.Number(0, 255), f.Number(0, 255), f.Number(1, 254))
	})
	str("ipv6", f.IPv6Address)
	str("mac_address", f.MacAddress)
	str("uri", f.URL)
	str("url", f.URL)
	str("domain_name", f.DomainName)
	str("user_agent", f.UserAgent)
	str("uuid4", f.UUID)

	// Text
	str("word", f.Word)
	str("color", f.Color)
	str("hex_color", f.HexColor)
	str("language_code", f.LanguageAbbreviation)
	add("sentence", KindString, func() any { return f.Sentence(8) })
	add("text", KindString, func() any { return f.Sentence(12) })
	add("paragraph", KindString, func() any { return f.Paragraph(1, 4, 10, " ") })

	// Numbers and time. Dates are formatted strings so drivers bind them
	// uniformly across DBMSes.
	add("number", KindInteger, func() any { return f.Number(0, 999999) })
	add("age", KindInteger, func() any { return f.Number(18, 95) })
	add("year", KindInteger, func() any { return f.Year() })
	add("date", KindDateTime, func() any {
		return f.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format(dateFormat)
	})
	add("date_time", KindDateTime, func() any {
		return f.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format(dateTimeFormat)
	})
	add("past_date", KindDateTime, func() any {
		return f.DateRange(time.Now().AddDate(-30, 0, 0), time.Now()).Format(dateFormat)
	})
	add("future_date", KindDateTime, func() any {
		return f.DateRange(time.Now(), time.Now().AddDate(30, 0, 0)).Format(dateFormat)
	})

	return reg
}
