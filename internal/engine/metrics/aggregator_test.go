package metrics

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/multimarks-api/internal/domain"
)

func tx(customer, sector, cycle, brand, value string, premium bool) domain.Transaction {
	product := domain.ProductRecord{SKU: "00001", Name: "Produto", Brand: brand}
	if premium {
		product.PremiumType = domain.PremiumTypeMakeup
	}
	return domain.Transaction{
		Customer:     domain.CustomerKey{ResellerCode: customer, Sector: sector},
		ResellerName: "Revendedora " + customer,
		Cycle:        cycle,
		Sector:       sector,
		Product:      product,
		Quantity:     1,
		Value:        decimal.RequireFromString(value),
	}
}

func TestAggregateMultimarcas(t *testing.T) {
	l := domain.Ledger{Transactions: []domain.Transaction{
		// R001 compra duas marcas distintas em linhas diferentes
		tx("R001", "100", "202601", "Eudora", "10.00", false),
		tx("R001", "100", "202601", "oBoticário", "20.00", false),
		// R002 compra a mesma marca duas vezes
		tx("R002", "100", "202601", "Eudora", "30.00", false),
		tx("R002", "100", "202601", "Eudora", "15.00", false),
	}}

	result := Aggregate(l)

	r1 := result.Customers[domain.CustomerKey{ResellerCode: "R001", Sector: "100"}]
	require.NotNil(t, r1)
	assert.True(t, r1.Multibrand)
	assert.Equal(t, []string{"Eudora", "oBoticário"}, r1.Brands)

	r2 := result.Customers[domain.CustomerKey{ResellerCode: "R002", Sector: "100"}]
	require.NotNil(t, r2)
	assert.False(t, r2.Multibrand)
	assert.Equal(t, []string{"Eudora"}, r2.Brands)
	assert.True(t, r2.Active)
}

func TestAggregateMarcaDesconhecidaNaoContaParaMultimarcas(t *testing.T) {
	l := domain.Ledger{Transactions: []domain.Transaction{
		tx("R001", "100", "202601", "Eudora", "10.00", false),
		tx("R001", "100", "202601", domain.BrandUnknown, "20.00", false),
	}}

	result := Aggregate(l)

	m := result.Customers[domain.CustomerKey{ResellerCode: "R001", Sector: "100"}]
	assert.False(t, m.Multibrand)
	assert.Equal(t, []string{"Eudora"}, m.Brands)
	// O valor da venda de marca desconhecida ainda soma no total.
	assert.True(t, m.TotalValue.Equal(decimal.RequireFromString("30.00")))
}

func TestAggregateIAF(t *testing.T) {
	l := domain.Ledger{Transactions: []domain.Transaction{
		tx("R001", "100", "202601", "Eudora", "10.00", true),
		tx("R001", "100", "202601", "Eudora", "10.00", false),
		tx("R001", "100", "202601", "Eudora", "10.00", false),
		tx("R001", "100", "202601", "Eudora", "10.00", false),
	}}

	result := Aggregate(l)

	m := result.Customers[domain.CustomerKey{ResellerCode: "R001", Sector: "100"}]
	assert.Equal(t, 1, m.PremiumCount)
	assert.InDelta(t, 0.25, m.IAF(), 1e-9)
	assert.GreaterOrEqual(t, m.IAF(), 0.0)
	assert.LessOrEqual(t, m.IAF(), 1.0)
}

func TestIAFSemTransacoes(t *testing.T) {
	m := &domain.CustomerMetrics{}
	assert.Zero(t, m.IAF())
}

// N linhas conciliadas de K clientes produzem exatamente K métricas e
// a soma dos totais por cliente bate com o total geral do Ledger.
func TestAggregateRoundTrip(t *testing.T) {
	var l domain.Ledger
	const customers = 7
	for i := 0; i < customers; i++ {
		code := fmt.Sprintf("R%03d", i)
		for j := 0; j <= i; j++ {
			l.Transactions = append(l.Transactions, tx(code, "100", "202601", "Eudora", fmt.Sprintf("%d.%02d", j+1, i), false))
		}
	}

	result := Aggregate(l)

	assert.Len(t, result.Customers, customers)

	sum := decimal.Zero
	for _, m := range result.Customers {
		sum = sum.Add(m.TotalValue)
	}
	assert.True(t, sum.Equal(l.GrandTotal()), "soma por cliente %s != total geral %s", sum, l.GrandTotal())
}

func TestAggregateIndependenteDeOrdem(t *testing.T) {
	base := []domain.Transaction{
		tx("R001", "100", "202601", "Eudora", "10.10", true),
		tx("R001", "100", "202602", "oBoticário", "20.20", false),
		tx("R002", "200", "202601", "Eudora", "30.30", false),
		tx("R002", "200", "202602", "O.U.I", "40.40", true),
		tx("R003", "100", "202601", domain.BrandUnknown, "50.50", false),
	}

	want := Aggregate(domain.Ledger{Transactions: base})

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.Transaction(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := Aggregate(domain.Ledger{Transactions: shuffled})
		assert.Equal(t, want.Customers, got.Customers)
		assert.Equal(t, want.Rollups, got.Rollups)
	}
}

func TestAggregateParallelEquivaleAoSequencial(t *testing.T) {
	var l domain.Ledger
	rng := rand.New(rand.NewSource(99))
	brands := []string{"Eudora", "oBoticário", "O.U.I", domain.BrandUnknown}
	for i := 0; i < 500; i++ {
		l.Transactions = append(l.Transactions, tx(
			fmt.Sprintf("R%03d", rng.Intn(40)),
			fmt.Sprintf("%d", 100+rng.Intn(5)),
			fmt.Sprintf("2026%02d", 1+rng.Intn(3)),
			brands[rng.Intn(len(brands))],
			fmt.Sprintf("%d.%02d", 1+rng.Intn(200), rng.Intn(100)),
			rng.Intn(4) == 0,
		))
	}

	want := Aggregate(l)

	for _, shards := range []int{2, 3, 8} {
		got := AggregateParallel(l, shards)
		assert.Equal(t, want.Customers, got.Customers, "shards=%d", shards)
		assert.Equal(t, want.Rollups, got.Rollups, "shards=%d", shards)
	}
}

func TestAggregateCategorias(t *testing.T) {
	named := func(customer, sku, name, value string) domain.Transaction {
		t := tx(customer, "100", "202601", "Eudora", value, false)
		t.Key = domain.NormalizedKey(sku)
		t.Product.SKU = sku
		t.Product.Name = name
		return t
	}

	l := domain.Ledger{Transactions: []domain.Transaction{
		named("R001", "00001", "BAT LIQ MATTE VERMELHO", "30.00"),
		named("R001", "00002", "BATOM CREMOSO NUDE", "20.00"),
		named("R002", "00001", "BAT LIQ MATTE VERMELHO", "10.00"),
		named("R002", "00003", "DES AER MASCULINO", "40.00"),
	}}

	result := Aggregate(l)

	require.Len(t, result.Rollups.Categories, 2)

	// Maior receita primeiro.
	maquiagem := result.Rollups.Categories[0]
	assert.Equal(t, "Maquiagem", maquiagem.Category)
	assert.Equal(t, 3, maquiagem.Sales)
	assert.Equal(t, 2, maquiagem.UniqueProducts)
	assert.True(t, maquiagem.TotalValue.Equal(decimal.RequireFromString("60.00")))
	assert.InDelta(t, 60.0, maquiagem.ValueShare, 1e-9)
	assert.InDelta(t, 75.0, maquiagem.ItemsShare, 1e-9)

	desodorantes := result.Rollups.Categories[1]
	assert.Equal(t, "Desodorantes", desodorantes.Category)
	assert.Equal(t, 1, desodorantes.UniqueProducts)
	assert.InDelta(t, 40.0, desodorantes.ValueShare, 1e-9)
}

func TestAggregateRollups(t *testing.T) {
	l := domain.Ledger{Transactions: []domain.Transaction{
		tx("R001", "100", "202601", "Eudora", "10.00", false),
		tx("R001", "100", "202601", "oBoticário", "20.00", false),
		tx("R002", "200", "202601", "Eudora", "30.00", false),
		tx("R002", "200", "202602", "Eudora", "5.00", false),
	}}

	result := Aggregate(l)

	require.Len(t, result.Rollups.Cycles, 2)
	c1 := result.Rollups.Cycles[0]
	assert.Equal(t, "202601", c1.Cycle)
	assert.Equal(t, 2, c1.ActiveCustomers)
	assert.Equal(t, 1, c1.MultibrandCustomers)
	assert.True(t, c1.TotalValue.Equal(decimal.RequireFromString("60.00")))

	require.Len(t, result.Rollups.Sectors, 2)
	assert.Equal(t, "100", result.Rollups.Sectors[0].Sector)
	assert.Equal(t, 1, result.Rollups.Sectors[0].ActiveCustomers)

	require.Len(t, result.Rollups.Brands, 2)
	// Maior receita primeiro
	assert.Equal(t, "Eudora", result.Rollups.Brands[0].Brand)
	assert.True(t, result.Rollups.Brands[0].TotalValue.Equal(decimal.RequireFromString("45.00")))
	assert.Equal(t, 3, result.Rollups.Brands[0].Sales)
}
