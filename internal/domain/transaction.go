package domain

import "github.com/shopspring/decimal"

// Transaction é uma linha de venda já validada e conciliada com o
// catálogo. Só linhas com Outcome == OutcomeMatched viram Transaction.
type Transaction struct {
	Customer     CustomerKey
	ResellerName string
	Cycle        string
	Sector       string
	Key          NormalizedKey
	Reason       MatchReason
	Product      ProductRecord
	Quantity     int64
	Value        decimal.Decimal
}

// Ledger é o conjunto limpo e conciliado de transações de um upload.
// É materializado por completo antes de qualquer agregação começar.
type Ledger struct {
	Transactions []Transaction
}

func (l Ledger) Len() int {
	return len(l.Transactions)
}

// GrandTotal soma o valor de todas as transações do Ledger.
func (l Ledger) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.Transactions {
		total = total.Add(tx.Value)
	}
	return total
}
