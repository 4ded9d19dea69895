package listquery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backoffice/internal/textnorm"
)

type person struct {
	ID       int
	Name     string
	NameNorm string
	City     string
	CityNorm string
	Active   bool
}

var personSpec = Spec{
	Search:   []string{"name_norm", "city_norm"},
	Filters:  map[string]string{"active": "active"},
	Sorts:    map[string]string{"name": "name", "city": "city", "active": "active"},
	Default:  "name",
	IDColumn: "id",
}

func setupPeople(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&person{}))

	rows := []person{
		{ID: 1, Name: "José Pérez", City: "Mérida", Active: true},
		{ID: 2, Name: "Ana López", City: "Cancún", Active: false},
		{ID: 3, Name: "JOSE Ruiz", City: "Puebla", Active: false},
		{ID: 4, Name: "Beto 100%", City: "León", Active: true},
		{ID: 5, Name: "Carla", City: "Mérida", Active: true},
		{ID: 6, Name: "Carla", City: "Oaxaca", Active: false},
	}
	for i := range rows {
		rows[i].NameNorm = textnorm.Normalize(rows[i].Name)
		rows[i].CityNorm = textnorm.Normalize(rows[i].City)
	}
	require.NoError(t, db.Create(&rows).Error)
	return db
}

func run(t *testing.T, db *gorm.DB, raw string) []int {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)

	var out []person
	require.NoError(t, db.Model(&person{}).Scopes(personSpec.Parse(values).Scope).Find(&out).Error)

	ids := make([]int, len(out))
	for i, p := range out {
		ids[i] = p.ID
	}
	return ids
}

func reversed(in []int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func TestParseTriState(t *testing.T) {
	assert.Equal(t, True, ParseTriState("true"))
	assert.Equal(t, True, ParseTriState("True"))
	assert.Equal(t, True, ParseTriState("1"))
	assert.Equal(t, False, ParseTriState("false"))
	assert.Equal(t, False, ParseTriState("0"))
	assert.Equal(t, Unset, ParseTriState(""))
	assert.Equal(t, Unset, ParseTriState("maybe"))
}

func TestParse_EchoedQueryStrings(t *testing.T) {
	values, err := url.ParseQuery("q=jos%C3%A9&active=true&ordering=-name&page=3")
	require.NoError(t, err)

	q := personSpec.Parse(values)

	assert.Equal(t, "jose", q.Term)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, "-name", q.CurrentOrder)
	assert.Equal(t, Order{Key: "name", Column: "name", Desc: true}, q.Order)
	assert.Equal(t, True, q.Filters["active"])
	assert.Equal(t, "active=true&ordering=-name&q=jos%C3%A9", q.QueryString)
	assert.Equal(t, "active=true&q=jos%C3%A9", q.QueryStringNoOrdering)
}

func TestParse_BadPageFallsBackToFirst(t *testing.T) {
	for _, raw := range []string{"page=abc", "page=0", "page=-2", ""} {
		values, _ := url.ParseQuery(raw)
		assert.Equal(t, 1, personSpec.Parse(values).Page, raw)
	}
}

func TestParse_UnknownOrderingUsesDefault(t *testing.T) {
	for _, raw := range []string{"", "ordering=", "ordering=password", "ordering=-", "ordering=--name", "ordering=name;drop"} {
		values, _ := url.ParseQuery(raw)
		q := personSpec.Parse(values)
		assert.Equal(t, Order{Key: "name", Column: "name"}, q.Order, raw)
	}
}

func TestParse_DescendingDefault(t *testing.T) {
	spec := personSpec
	spec.Default = "-city"
	q := spec.Parse(url.Values{})
	assert.Equal(t, Order{Key: "city", Column: "city", Desc: true}, q.Order)
}

func TestScope_SearchIsAccentAndCaseInsensitive(t *testing.T) {
	db := setupPeople(t)

	want := run(t, db, "q=jose")
	assert.ElementsMatch(t, []int{1, 3}, want)
	for _, variant := range []string{"José", "JOSE", "jóse", "  jOsÉ "} {
		assert.Equal(t, want, run(t, db, url.Values{"q": {variant}}.Encode()), variant)
	}
}

func TestScope_SearchMatchesAnyField(t *testing.T) {
	db := setupPeople(t)

	assert.ElementsMatch(t, []int{1, 5}, run(t, db, "q=merida"))
	assert.ElementsMatch(t, []int{2}, run(t, db, "q=cancun"))
}

func TestScope_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := setupPeople(t)

	assert.Equal(t, []int{4}, run(t, db, url.Values{"q": {"100%"}}.Encode()))
	assert.Empty(t, run(t, db, url.Values{"q": {"_"}}.Encode()))
}

func TestScope_TriStateFilterPartitions(t *testing.T) {
	db := setupPeople(t)

	all := run(t, db, "")
	yes := run(t, db, "active=true")
	no := run(t, db, "active=false")

	assert.ElementsMatch(t, []int{1, 4, 5}, yes)
	assert.ElementsMatch(t, []int{2, 3, 6}, no)
	assert.ElementsMatch(t, all, append(append([]int{}, yes...), no...))
	assert.ElementsMatch(t, all, run(t, db, "active=garbage"))
}

func TestScope_DescendingIsExactReverse(t *testing.T) {
	db := setupPeople(t)

	for key := range personSpec.Sorts {
		asc := run(t, db, "ordering="+key)
		desc := run(t, db, "ordering=-"+key)
		assert.Len(t, asc, 6)
		assert.Equal(t, reversed(asc), desc, key)
	}
}

func TestScope_UnknownOrderingMatchesDefault(t *testing.T) {
	db := setupPeople(t)

	def := run(t, db, "")
	assert.Equal(t, []int{2, 4, 5, 6, 3, 1}, def)
	assert.Equal(t, def, run(t, db, "ordering=bogus"))
	assert.Equal(t, def, run(t, db, "ordering=-bogus"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, EscapeLike(`a%b_c\d`))
}
