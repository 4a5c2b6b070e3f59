// Package metrics agrega o Ledger em métricas por revendedora e nos
// consolidados por ciclo, setor, marca e categoria. A dobra é associativa e
// independente de ordem: qualquer permutação do Ledger, com qualquer
// particionamento em shards paralelos, produz métricas idênticas.
package metrics

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vfg2006/multimarks-api/internal/domain"
	"github.com/vfg2006/multimarks-api/internal/engine/category"
	"github.com/vfg2006/multimarks-api/internal/engine/normalizer"
	"github.com/vfg2006/multimarks-api/pkg/utils"
)

// Result é a saída imutável da agregação de um Ledger.
type Result struct {
	Customers map[domain.CustomerKey]*domain.CustomerMetrics
	Rollups   domain.Rollups
}

// Aggregate dobra o Ledger inteiro em um único worker.
func Aggregate(l domain.Ledger) *Result {
	p := newPartial()
	for _, tx := range l.Transactions {
		p.add(tx)
	}
	return p.finalize()
}

// AggregateParallel reparte o Ledger em shards, agrega cada um em
// paralelo e funde os agregados parciais. O resultado é idêntico ao
// de Aggregate, por construção.
func AggregateParallel(l domain.Ledger, shards int) *Result {
	if shards <= 1 || l.Len() < shards {
		return Aggregate(l)
	}

	partials := make([]*partial, shards)
	chunk := (l.Len() + shards - 1) / shards

	var wg sync.WaitGroup
	for i := 0; i < shards; i++ {
		start := i * chunk
		end := start + chunk
		if end > l.Len() {
			end = l.Len()
		}
		if start >= end {
			partials[i] = newPartial()
			continue
		}

		wg.Add(1)
		go func(i, start, end int) {
			defer wg.Done()
			p := newPartial()
			for _, tx := range l.Transactions[start:end] {
				p.add(tx)
			}
			partials[i] = p
		}(i, start, end)
	}
	wg.Wait()

	merged := partials[0]
	for _, p := range partials[1:] {
		merged.merge(p)
	}
	return merged.finalize()
}

type customerAcc struct {
	name    string
	brands  map[string]struct{}
	cycles  map[string]struct{}
	value   decimal.Decimal
	items   int64
	txs     int
	premium int
}

type groupAcc struct {
	customerBrands map[domain.CustomerKey]map[string]struct{}
	items          int64
	value          decimal.Decimal
}

type brandAcc struct {
	sales int
	items int64
	value decimal.Decimal
}

type categoryAcc struct {
	sales    int
	items    int64
	value    decimal.Decimal
	products map[domain.NormalizedKey]struct{}
}

type partial struct {
	customers  map[domain.CustomerKey]*customerAcc
	cycles     map[string]*groupAcc
	sectors    map[string]*groupAcc
	brands     map[string]*brandAcc
	categories map[string]*categoryAcc
}

func newPartial() *partial {
	return &partial{
		customers:  make(map[domain.CustomerKey]*customerAcc),
		cycles:     make(map[string]*groupAcc),
		sectors:    make(map[string]*groupAcc),
		brands:     make(map[string]*brandAcc),
		categories: make(map[string]*categoryAcc),
	}
}

func (p *partial) add(tx domain.Transaction) {
	brand := normalizer.CanonicalBrand(tx.Product.Brand)

	acc := p.customers[tx.Customer]
	if acc == nil {
		acc = &customerAcc{
			brands: make(map[string]struct{}),
			cycles: make(map[string]struct{}),
			value:  decimal.Zero,
		}
		p.customers[tx.Customer] = acc
	}

	if acc.name == "" {
		acc.name = tx.ResellerName
	}
	// Marca desconhecida não conta para o multimarcas.
	if brand != domain.BrandUnknown {
		acc.brands[brand] = struct{}{}
	}
	acc.cycles[tx.Cycle] = struct{}{}
	acc.value = acc.value.Add(tx.Value)
	acc.items += tx.Quantity
	acc.txs++
	if tx.Product.IsPremium() {
		acc.premium++
	}

	p.addGroup(p.cycles, tx.Cycle, tx.Customer, brand, tx)
	p.addGroup(p.sectors, tx.Sector, tx.Customer, brand, tx)

	b := p.brands[brand]
	if b == nil {
		b = &brandAcc{value: decimal.Zero}
		p.brands[brand] = b
	}
	b.sales++
	b.items += tx.Quantity
	b.value = b.value.Add(tx.Value)

	// A categoria sai do nome canônico do catálogo, presente em toda
	// transação conciliada.
	cat := category.Classify(tx.Product.Name)
	c := p.categories[cat]
	if c == nil {
		c = &categoryAcc{value: decimal.Zero, products: make(map[domain.NormalizedKey]struct{})}
		p.categories[cat] = c
	}
	c.sales++
	c.items += tx.Quantity
	c.value = c.value.Add(tx.Value)
	c.products[tx.Key] = struct{}{}
}

func (p *partial) addGroup(groups map[string]*groupAcc, key string, customer domain.CustomerKey, brand string, tx domain.Transaction) {
	g := groups[key]
	if g == nil {
		g = &groupAcc{customerBrands: make(map[domain.CustomerKey]map[string]struct{}), value: decimal.Zero}
		groups[key] = g
	}

	brands := g.customerBrands[customer]
	if brands == nil {
		brands = make(map[string]struct{})
		g.customerBrands[customer] = brands
	}
	if brand != domain.BrandUnknown {
		brands[brand] = struct{}{}
	}

	g.items += tx.Quantity
	g.value = g.value.Add(tx.Value)
}

// merge funde outro agregado parcial neste. Comutativo e associativo:
// a ordem de fusão dos shards não altera o resultado.
func (p *partial) merge(o *partial) {
	for key, other := range o.customers {
		acc := p.customers[key]
		if acc == nil {
			p.customers[key] = other
			continue
		}
		if acc.name == "" {
			acc.name = other.name
		}
		for b := range other.brands {
			acc.brands[b] = struct{}{}
		}
		for c := range other.cycles {
			acc.cycles[c] = struct{}{}
		}
		acc.value = acc.value.Add(other.value)
		acc.items += other.items
		acc.txs += other.txs
		acc.premium += other.premium
	}

	mergeGroups(p.cycles, o.cycles)
	mergeGroups(p.sectors, o.sectors)

	for name, other := range o.brands {
		b := p.brands[name]
		if b == nil {
			p.brands[name] = other
			continue
		}
		b.sales += other.sales
		b.items += other.items
		b.value = b.value.Add(other.value)
	}

	for name, other := range o.categories {
		c := p.categories[name]
		if c == nil {
			p.categories[name] = other
			continue
		}
		c.sales += other.sales
		c.items += other.items
		c.value = c.value.Add(other.value)
		for sku := range other.products {
			c.products[sku] = struct{}{}
		}
	}
}

func mergeGroups(dst, src map[string]*groupAcc) {
	for key, other := range src {
		g := dst[key]
		if g == nil {
			dst[key] = other
			continue
		}
		for customer, brands := range other.customerBrands {
			existing := g.customerBrands[customer]
			if existing == nil {
				g.customerBrands[customer] = brands
				continue
			}
			for b := range brands {
				existing[b] = struct{}{}
			}
		}
		g.items += other.items
		g.value = g.value.Add(other.value)
	}
}

func (p *partial) finalize() *Result {
	result := &Result{Customers: make(map[domain.CustomerKey]*domain.CustomerMetrics, len(p.customers))}

	for key, acc := range p.customers {
		result.Customers[key] = &domain.CustomerMetrics{
			Key:          key,
			ResellerName: acc.name,
			Cycles:       sortedKeys(acc.cycles),
			Brands:       sortedKeys(acc.brands),
			TotalValue:   acc.value,
			TotalItems:   acc.items,
			Transactions: acc.txs,
			PremiumCount: acc.premium,
			Active:       acc.txs > 0,
			Multibrand:   len(acc.brands) >= 2,
		}
	}

	for _, cycle := range sortedGroupKeys(p.cycles) {
		g := p.cycles[cycle]
		active, multibrand := countGroupCustomers(g)
		result.Rollups.Cycles = append(result.Rollups.Cycles, domain.CycleRollup{
			Cycle:               cycle,
			ActiveCustomers:     active,
			MultibrandCustomers: multibrand,
			TotalItems:          g.items,
			TotalValue:          g.value,
		})
	}

	for _, sector := range sortedGroupKeys(p.sectors) {
		g := p.sectors[sector]
		active, multibrand := countGroupCustomers(g)
		result.Rollups.Sectors = append(result.Rollups.Sectors, domain.SectorRollup{
			Sector:              sector,
			ActiveCustomers:     active,
			MultibrandCustomers: multibrand,
			TotalItems:          g.items,
			TotalValue:          g.value,
		})
	}

	for name, b := range p.brands {
		result.Rollups.Brands = append(result.Rollups.Brands, domain.BrandRollup{
			Brand:      name,
			Sales:      b.sales,
			TotalItems: b.items,
			TotalValue: b.value,
		})
	}
	// Maior receita primeiro; nome desempata para manter a ordem
	// estável em snapshots.
	sort.Slice(result.Rollups.Brands, func(i, j int) bool {
		a, b := result.Rollups.Brands[i], result.Rollups.Brands[j]
		if !a.TotalValue.Equal(b.TotalValue) {
			return a.TotalValue.GreaterThan(b.TotalValue)
		}
		return a.Brand < b.Brand
	})

	result.Rollups.Categories = p.finalizeCategories()

	return result
}

// finalizeCategories materializa o consolidado por categoria. As
// fatias percentuais são derivadas aqui, depois da fusão de todos os
// shards, para que o particionamento não as afete.
func (p *partial) finalizeCategories() []domain.CategoryRollup {
	totalValue := decimal.Zero
	var totalItems int64
	for _, c := range p.categories {
		totalValue = totalValue.Add(c.value)
		totalItems += c.items
	}

	rollups := make([]domain.CategoryRollup, 0, len(p.categories))
	for name, c := range p.categories {
		rollup := domain.CategoryRollup{
			Category:       name,
			Sales:          c.sales,
			TotalItems:     c.items,
			TotalValue:     c.value,
			UniqueProducts: len(c.products),
		}
		if totalValue.IsPositive() {
			rollup.ValueShare = utils.RoundWithTwoDecimalPlace(c.value.Div(totalValue).InexactFloat64() * 100)
		}
		if totalItems > 0 {
			rollup.ItemsShare = utils.RoundWithTwoDecimalPlace(float64(c.items) / float64(totalItems) * 100)
		}
		rollups = append(rollups, rollup)
	}

	sort.Slice(rollups, func(i, j int) bool {
		a, b := rollups[i], rollups[j]
		if !a.TotalValue.Equal(b.TotalValue) {
			return a.TotalValue.GreaterThan(b.TotalValue)
		}
		return a.Category < b.Category
	})

	return rollups
}

func countGroupCustomers(g *groupAcc) (active, multibrand int) {
	active = len(g.customerBrands)
	for _, brands := range g.customerBrands {
		if len(brands) >= 2 {
			multibrand++
		}
	}
	return active, multibrand
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedGroupKeys(groups map[string]*groupAcc) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
