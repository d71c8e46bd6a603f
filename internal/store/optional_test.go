package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobly/internal/errcode"
	"jobly/internal/sqlbuild"
)

func TestOptionalUnmarshal(t *testing.T) {
	var u JobUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"salary": null, "equity": "0.5"}`), &u))

	assert.False(t, u.Title.Set)
	assert.True(t, u.Salary.Set)
	assert.True(t, u.Salary.Null)
	assert.Equal(t, Some("0.5"), u.Equity)
}

func TestCompanyUpdatePatch(t *testing.T) {
	u := CompanyUpdate{
		Name:         Some("New"),
		NumEmployees: Null[int](),
		LogoURL:      Some("http://new.img"),
	}
	p, err := u.patch()
	require.NoError(t, err)

	upd, err := sqlbuild.PartialUpdate(p, companyFieldColumns)
	require.NoError(t, err)
	assert.Equal(t, `"name"=$1, "num_employees"=$2, "logo_url"=$3`, upd.SetClause)
	assert.Equal(t, []any{"New", nil, "http://new.img"}, upd.Values)
	assert.Equal(t, 4, upd.NextIndex())
}

func TestCompanyUpdatePatch_Rejects(t *testing.T) {
	for _, u := range []CompanyUpdate{
		{Name: Null[string]()},
		{NumEmployees: Some(-3)},
	} {
		_, err := u.patch()
		assert.Equal(t, errcode.KindBadRequest, errcode.KindOf(err))
	}
}

func TestJobUpdatePatch_Equity(t *testing.T) {
	for _, ok := range []string{"0", "0.5", "0.999"} {
		_, err := JobUpdate{Equity: Some(ok)}.patch()
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"1", "1.5", "-0.1", "abc", "NaN", "0x0.8p0", "5e-1", "0_5", "Inf"} {
		_, err := JobUpdate{Equity: Some(bad)}.patch()
		assert.Equal(t, errcode.KindBadRequest, errcode.KindOf(err), bad)
	}
}

func TestEmptyUpdateIsBadRequest(t *testing.T) {
	p, err := JobUpdate{}.patch()
	require.NoError(t, err)

	_, err = sqlbuild.PartialUpdate(p, nil)
	assert.Equal(t, errcode.KindBadRequest, errcode.KindOf(err))
}
