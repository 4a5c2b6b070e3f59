package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedCustomer(code, value string, brands ...string) *CustomerMetrics {
	return &CustomerMetrics{
		Key:          CustomerKey{ResellerCode: code, Sector: "100"},
		ResellerName: "Revendedora " + code,
		Cycles:       []string{"202601"},
		Brands:       brands,
		TotalValue:   decimal.RequireFromString(value),
		Multibrand:   len(brands) >= 2,
	}
}

func TestBuildRanking(t *testing.T) {
	customers := []*CustomerMetrics{
		rankedCustomer("R003", "50.00", "Eudora"),
		rankedCustomer("R001", "200.00", "Eudora", "oBoticário"),
		rankedCustomer("R002", "120.00", "Eudora"),
	}

	ranking := BuildRanking(customers, 0)

	require.Len(t, ranking, 3)
	assert.Equal(t, 1, ranking[0].Position)
	assert.Equal(t, "R001", ranking[0].Key.ResellerCode)
	assert.True(t, ranking[0].Multibrand)
	assert.Equal(t, 2, ranking[0].BrandCount)
	assert.Equal(t, "R002", ranking[1].Key.ResellerCode)
	assert.Equal(t, 3, ranking[2].Position)
}

func TestBuildRankingLimite(t *testing.T) {
	customers := []*CustomerMetrics{
		rankedCustomer("R001", "30.00", "Eudora"),
		rankedCustomer("R002", "20.00", "Eudora"),
		rankedCustomer("R003", "10.00", "Eudora"),
	}

	ranking := BuildRanking(customers, 2)

	require.Len(t, ranking, 2)
	assert.Equal(t, "R001", ranking[0].Key.ResellerCode)
	assert.Equal(t, "R002", ranking[1].Key.ResellerCode)
}

func TestBuildRankingEmpateResolvePorChave(t *testing.T) {
	customers := []*CustomerMetrics{
		rankedCustomer("R002", "10.00", "Eudora"),
		rankedCustomer("R001", "10.00", "Eudora"),
	}

	ranking := BuildRanking(customers, 0)

	require.Len(t, ranking, 2)
	assert.Equal(t, "R001", ranking[0].Key.ResellerCode)
	assert.Equal(t, "R002", ranking[1].Key.ResellerCode)
}
