package table_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relalg/internal/table"
	"github.com/roach88/relalg/internal/testutil"
	"github.com/roach88/relalg/internal/value"
)

// sortedRows returns the rendered rows of tbl in sorted order, for
// comparisons that ignore tuple order.
func sortedRows(tbl *table.Table) []string {
	rows := testutil.Rows(tbl)
	slices.Sort(rows)
	return rows
}

func alien() value.Tuple {
	return value.Of(value.Text("Alien"), value.Int(1979), value.Int(117), value.Text("Fox"))
}

func TestProject_Example(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.Project("title", "year")
	require.NoError(t, err)

	assert.Equal(t, "Movie0", out.Name())
	assert.Equal(t, []string{"title", "year"}, out.Attributes())
	assert.Equal(t, []string{"title", "year"}, out.Key())
	assert.Equal(t, []string{"[Star_Wars, 1977]", "[Jaws, 1975]"}, testutil.Rows(out))
}

func TestProject_ReordersAndKeepsKey(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.Project("studioName", "year", "title")
	require.NoError(t, err)

	assert.Equal(t, []value.Domain{value.DomainText, value.DomainInteger, value.DomainText}, out.Domains())
	assert.Equal(t, []string{"title", "year"}, out.Key(), "key survives when fully projected")
	assert.Equal(t, "[Fox, 1977, Star_Wars]", testutil.Rows(out)[0])
}

func TestProject_BagSemantics(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.Project("length")
	require.NoError(t, err)

	assert.Equal(t, []string{"length"}, out.Key(), "projected names become the key")
	assert.Equal(t, []string{"[124]", "[124]"}, testutil.Rows(out))
	assert.Equal(t, 1, out.DistinctKeys())
}

func TestProject_Errors(t *testing.T) {
	movie := testutil.Movie(t)

	_, err := movie.Project("title", "rating")
	assert.True(t, table.IsAttributeNotFound(err))

	_, err = movie.Project("title", "title")
	assert.True(t, table.IsDuplicateAttribute(err))

	_, err = movie.Project()
	assert.True(t, table.IsInvalidSchema(err))
}

func TestSelect_Predicate(t *testing.T) {
	movie := testutil.Movie(t)
	year := movie.Col("year")

	out := movie.Select(func(tup value.Tuple) bool {
		return value.Equal(tup[year], value.Int(1977))
	})

	assert.Equal(t, movie.Schema().Attributes, out.Attributes())
	assert.Equal(t, movie.Key(), out.Key())
	assert.Equal(t, []string{"[Star_Wars, 1977, 124, Fox]"}, testutil.Rows(out))
}

func TestSelect_NilKeepsAll(t *testing.T) {
	movie := testutil.Movie(t)

	out := movie.Select(nil)
	assert.Equal(t, testutil.Rows(movie), testutil.Rows(out))
	assert.NotEqual(t, movie.Name(), out.Name())
}

func TestSelect_Where(t *testing.T) {
	movie := testutil.Movie(t)

	pred, err := movie.Where("studioName", value.Text("Universal"))
	require.NoError(t, err)
	assert.Equal(t, []string{"[Jaws, 1975, 124, Universal]"}, testutil.Rows(movie.Select(pred)))

	_, err = movie.Where("rating", value.Int(1))
	assert.True(t, table.IsAttributeNotFound(err))

	_, err = movie.Where("year", value.Text("1977"))
	assert.True(t, table.IsDomainMismatch(err))
}

func TestSelect_WhereCoercesIntToReal(t *testing.T) {
	rating := testutil.NewTable(t, table.Schema{
		Name:       "Rating",
		Attributes: []string{"title", "score"},
		Domains:    []value.Domain{value.DomainText, value.DomainReal},
		Key:        []string{"title"},
	},
		value.Of(value.Text("Jaws"), value.Real(8)),
		value.Of(value.Text("Alien"), value.Real(8.5)),
	)

	pred, err := rating.Where("score", value.Int(8))
	require.NoError(t, err)
	assert.Equal(t, []string{"[Jaws, 8]"}, testutil.Rows(rating.Select(pred)))
}

func TestSelectKey_Example(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.SelectKey(value.Text("Star_Wars"), value.Int(1977))
	require.NoError(t, err)
	assert.Equal(t, []string{"[Star_Wars, 1977, 124, Fox]"}, testutil.Rows(out))

	out, err = movie.SelectKey(value.Text("Star_Wars"), value.Int(1978))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestSelectKey_Errors(t *testing.T) {
	movie := testutil.Movie(t)

	_, err := movie.SelectKey(value.Text("Star_Wars"))
	assert.True(t, table.IsArityMismatch(err))

	_, err = movie.SelectKey(value.Text("Star_Wars"), value.Text("1977"))
	var te *table.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, table.ErrCodeDomainMismatch, te.Code)
	assert.Equal(t, 1, te.Position)
}

func TestSelectKey_MatchesPredicateSelect(t *testing.T) {
	movie := testutil.Movie(t)
	require.NoError(t, movie.Insert(alien()))
	lengths, err := movie.Project("length")
	require.NoError(t, err)

	tests := []struct {
		name string
		tbl  *table.Table
		key  value.Tuple
	}{
		{"base hit", movie, value.Of(value.Text("Jaws"), value.Int(1975))},
		{"base miss", movie, value.Of(value.Text("Jaws"), value.Int(2000))},
		{"bag with repeated key", lengths, value.Of(value.Int(124))},
		{"bag single", lengths, value.Of(value.Int(117))},
		{"bag miss", lengths, value.Of(value.Int(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byKey, err := tt.tbl.SelectKey(tt.key...)
			require.NoError(t, err)
			byPred := tt.tbl.Select(tt.tbl.KeyPredicate(tt.key))

			assert.Equal(t, testutil.Rows(byPred), testutil.Rows(byKey))
		})
	}
}

func TestUnion(t *testing.T) {
	a := testutil.Movie(t)
	b := testutil.NewTable(t, testutil.MovieSchema(), testutil.Jaws(), alien())

	out, err := a.Union(b)
	require.NoError(t, err)

	assert.Equal(t, a.Key(), out.Key())
	assert.Equal(t, []string{
		"[Star_Wars, 1977, 124, Fox]",
		"[Jaws, 1975, 124, Universal]",
		"[Alien, 1979, 117, Fox]",
	}, testutil.Rows(out))
}

func TestUnion_Commutative(t *testing.T) {
	a := testutil.Movie(t)
	b := testutil.NewTable(t, testutil.MovieSchema(), testutil.Jaws(), alien())

	ab, err := a.Union(b)
	require.NoError(t, err)
	ba, err := b.Union(a)
	require.NoError(t, err)

	assert.Equal(t, sortedRows(ab), sortedRows(ba))
}

func TestUnion_Idempotent(t *testing.T) {
	a := testutil.Movie(t)

	aa, err := a.Union(a)
	require.NoError(t, err)
	assert.Equal(t, testutil.Rows(a), testutil.Rows(aa))
}

func TestUnion_DeduplicatesBags(t *testing.T) {
	lengths, err := testutil.Movie(t).Project("length")
	require.NoError(t, err)

	out, err := lengths.Union(lengths)
	require.NoError(t, err)
	assert.Equal(t, []string{"[124]"}, testutil.Rows(out))
}

func TestUnion_Incompatible(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.Union(testutil.Studio(t))
	assert.Nil(t, out)
	assert.True(t, table.IsIncompatibleSchemas(err))
	assert.True(t, table.IsArityMismatch(err))

	swapped := testutil.NewTable(t, table.Schema{
		Name:       "Swapped",
		Attributes: []string{"title", "year", "length", "studioName"},
		Domains:    []value.Domain{value.DomainText, value.DomainText, value.DomainInteger, value.DomainText},
		Key:        []string{"title"},
	})
	_, err = movie.Union(swapped)
	assert.True(t, table.IsIncompatibleSchemas(err))
	assert.True(t, table.IsDomainMismatch(err))
}

func TestMinus(t *testing.T) {
	a := testutil.Movie(t)
	b := testutil.NewTable(t, testutil.MovieSchema(), testutil.Jaws(), alien())

	out, err := a.Minus(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"[Star_Wars, 1977, 124, Fox]"}, testutil.Rows(out))
}

func TestMinus_Self(t *testing.T) {
	a := testutil.Movie(t)

	out, err := a.Minus(a)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, a.Attributes(), out.Attributes())
}

func TestMinus_IdempotentOnceDifferenced(t *testing.T) {
	a := testutil.NewTable(t, testutil.MovieSchema(), testutil.StarWars(), testutil.Jaws(), alien())
	b := testutil.NewTable(t, testutil.MovieSchema(), testutil.Jaws())

	once, err := a.Minus(b)
	require.NoError(t, err)
	twice, err := once.Minus(b)
	require.NoError(t, err)

	assert.Equal(t, testutil.Rows(once), testutil.Rows(twice))
}

func TestMinus_WholeTupleEquality(t *testing.T) {
	a := testutil.Movie(t)
	// Same key as Jaws, different length.
	b := testutil.NewTable(t, testutil.MovieSchema(),
		value.Of(value.Text("Jaws"), value.Int(1975), value.Int(130), value.Text("Universal")))

	out, err := a.Minus(b)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestMinus_Incompatible(t *testing.T) {
	_, err := testutil.Movie(t).Minus(testutil.Studio(t))
	assert.True(t, table.IsIncompatibleSchemas(err))
}

func TestJoin_Example(t *testing.T) {
	movie := testutil.Movie(t)
	studio := testutil.Studio(t)

	out, err := movie.Join([]string{"studioName"}, []string{"name"}, studio)
	require.NoError(t, err)

	assert.Equal(t, "Movie0", out.Name())
	assert.Equal(t, []string{"title", "year", "length", "studioName", "name", "address"}, out.Attributes())
	assert.NotContains(t, out.Attributes(), "name2")
	assert.Equal(t, []string{"title", "year", "name"}, out.Key())
	assert.Equal(t, []string{"[Star_Wars, 1977, 124, Fox, Fox, LA]"}, testutil.Rows(out))
}

func TestJoin_DisambiguatesCollisions(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.Join([]string{"length"}, []string{"length"}, movie)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"title", "year", "length", "studioName",
		"title2", "year2", "length2", "studioName2",
	}, out.Attributes())
	assert.Equal(t, []string{"title", "year", "title2", "year2"}, out.Key())
	assert.Equal(t, 4, out.Len(), "both movies have length 124")
}

func TestJoin_CaseInsensitiveCollision(t *testing.T) {
	left := testutil.NewTable(t, table.Schema{
		Name:       "L",
		Attributes: []string{"Name", "name2"},
		Domains:    []value.Domain{value.DomainText, value.DomainText},
		Key:        []string{"Name"},
	})
	right := testutil.NewTable(t, table.Schema{
		Name:       "R",
		Attributes: []string{"NAME"},
		Domains:    []value.Domain{value.DomainText},
		Key:        []string{"NAME"},
	})

	out, err := left.Join(nil, nil, right)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "name2", "NAME22"}, out.Attributes())
}

func TestJoin_EmptyConditionsIsCartesian(t *testing.T) {
	movie := testutil.Movie(t)
	studio := testutil.NewTable(t, testutil.StudioSchema(),
		value.Of(value.Text("Fox"), value.Text("LA")),
		value.Of(value.Text("MGM"), value.Text("Culver City")),
	)

	out, err := movie.Join(nil, nil, studio)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, "[Star_Wars, 1977, 124, Fox, MGM, Culver City]", testutil.Rows(out)[1])
}

func TestJoin_Errors(t *testing.T) {
	movie := testutil.Movie(t)
	studio := testutil.Studio(t)

	_, err := movie.Join([]string{"studioName", "title"}, []string{"name"}, studio)
	assert.True(t, table.IsArityMismatch(err))

	_, err = movie.Join([]string{"studio"}, []string{"name"}, studio)
	assert.True(t, table.IsAttributeNotFound(err))

	_, err = movie.Join([]string{"studioName"}, []string{"city"}, studio)
	assert.True(t, table.IsAttributeNotFound(err))

	_, err = movie.Join([]string{"studioName", "year"}, []string{"name", "address"}, studio)
	var te *table.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, table.ErrCodeDomainMismatch, te.Code)
	assert.Equal(t, 1, te.Position)
}

// studioByName is Studio keyed on an attribute named like Movie's studioName
// but in a different case.
func studioByName(t *testing.T) *table.Table {
	return testutil.NewTable(t, table.Schema{
		Name:       "StudioInfo",
		Attributes: []string{"StudioName", "address"},
		Domains:    []value.Domain{value.DomainText, value.DomainText},
		Key:        []string{"StudioName"},
	},
		value.Of(value.Text("Fox"), value.Text("LA")),
		value.Of(value.Text("Universal"), value.Text("Universal City")),
		value.Of(value.Text("MGM"), value.Text("Culver City")),
	)
}

func TestNaturalJoin(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.NaturalJoin(studioByName(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "year", "length", "studioName", "address"}, out.Attributes())
	assert.Equal(t, []string{"title", "year", "studioName"}, out.Key())
	assert.Equal(t, []string{
		"[Star_Wars, 1977, 124, Fox, LA]",
		"[Jaws, 1975, 124, Universal, Universal City]",
	}, testutil.Rows(out))
}

func TestNaturalJoin_NoDuplicateColumns(t *testing.T) {
	movie := testutil.Movie(t)

	out, err := movie.NaturalJoin(movie)
	require.NoError(t, err)

	assert.Equal(t, movie.Attributes(), out.Attributes())
	assert.Equal(t, movie.Key(), out.Key())
	assert.Equal(t, testutil.Rows(movie), testutil.Rows(out))
}

func TestNaturalJoin_NoCommonAttributes(t *testing.T) {
	movie := testutil.Movie(t)
	studio := testutil.Studio(t)

	out, err := movie.NaturalJoin(studio)
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "year", "length", "studioName", "name", "address"}, out.Attributes())
	assert.Equal(t, 0, out.Len(), "no cartesian product without common attributes")

	cartesian, err := movie.Join(nil, nil, studio)
	require.NoError(t, err)
	assert.Equal(t, 2, cartesian.Len())
}

func TestNaturalJoin_DomainMismatch(t *testing.T) {
	movie := testutil.Movie(t)
	other := testutil.NewTable(t, table.Schema{
		Name:       "Years",
		Attributes: []string{"year"},
		Domains:    []value.Domain{value.DomainText},
		Key:        []string{"year"},
	})

	_, err := movie.NaturalJoin(other)
	var te *table.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, table.ErrCodeDomainMismatch, te.Code)
	assert.Equal(t, 1, te.Position)
}

func TestNaturalJoin_PrefersExactCase(t *testing.T) {
	people := testutil.NewTable(t, table.Schema{
		Name:       "People",
		Attributes: []string{"NAME", "name"},
		Domains:    []value.Domain{value.DomainText, value.DomainText},
		Key:        []string{"NAME"},
	},
		value.Of(value.Text("ALICE"), value.Text("alice")),
		value.Of(value.Text("BOB"), value.Text("bob")),
	)
	ages := testutil.NewTable(t, table.Schema{
		Name:       "Ages",
		Attributes: []string{"name", "age"},
		Domains:    []value.Domain{value.DomainText, value.DomainInteger},
		Key:        []string{"name"},
	},
		value.Of(value.Text("alice"), value.Int(30)),
		value.Of(value.Text("BOB"), value.Int(40)),
	)

	out, err := people.NaturalJoin(ages)
	require.NoError(t, err)

	assert.Equal(t, []string{"NAME", "name", "age"}, out.Attributes())
	assert.Equal(t, []string{"[ALICE, alice, 30]"}, testutil.Rows(out))

	// Without an exact spelling the first folded match is used.
	upper := testutil.NewTable(t, table.Schema{
		Name:       "Upper",
		Attributes: []string{"Name", "age"},
		Domains:    []value.Domain{value.DomainText, value.DomainInteger},
		Key:        []string{"Name"},
	},
		value.Of(value.Text("BOB"), value.Int(40)),
	)
	out, err = people.NaturalJoin(upper)
	require.NoError(t, err)
	assert.Equal(t, []string{"[BOB, bob, 40]"}, testutil.Rows(out))
}

func TestThetaJoinOnCommonAttributesMatchesNaturalJoin(t *testing.T) {
	movie := testutil.Movie(t)
	info := studioByName(t)

	natural, err := movie.NaturalJoin(info)
	require.NoError(t, err)

	theta, err := movie.Join([]string{"studioName"}, []string{"StudioName"}, info)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "year", "length", "studioName", "StudioName2", "address"}, theta.Attributes())

	reordered, err := theta.Project(natural.Attributes()...)
	require.NoError(t, err)
	assert.Equal(t, sortedRows(natural), sortedRows(reordered))
}

func TestDerivedNames_UseLeftOperandNamer(t *testing.T) {
	namer := table.NewNamer()
	opts := []table.Option{table.WithNamer(namer), table.WithLogger(testutil.DiscardLogger())}
	movie, err := table.New(testutil.MovieSchema(), opts...)
	require.NoError(t, err)

	p, err := movie.Project("title")
	require.NoError(t, err)
	s := p.Select(nil)

	assert.Equal(t, "Movie0", p.Name())
	assert.Equal(t, "Movie01", s.Name())
	assert.Same(t, namer, s.Namer())
	assert.Equal(t, int64(2), namer.Current())
}
