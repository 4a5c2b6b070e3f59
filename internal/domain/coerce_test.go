package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "inteiro simples", raw: "3", want: 3},
		{name: "com espaços", raw: " 12 ", want: 12},
		{name: "sufixo de planilha", raw: "5.0", want: 5},
		{name: "negativo", raw: "-2", want: -2},
		{name: "fracionário", raw: "2.5", wantErr: true},
		{name: "não numérico", raw: "abc", wantErr: true},
		{name: "vazio", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "formato brasileiro", raw: "1.234,56", want: "1234.56"},
		{name: "formato americano", raw: "1,234.56", want: "1234.56"},
		{name: "milhares repetidos", raw: "1.234.567,89", want: "1234567.89"},
		{name: "com prefixo de moeda", raw: "R$ 59,80", want: "59.80"},
		{name: "decimal simples", raw: "12,34", want: "12.34"},
		{name: "ponto decimal", raw: "12.34", want: "12.34"},
		{name: "inteiro", raw: "100", want: "100"},
		{name: "não numérico", raw: "dez reais", wantErr: true},
		{name: "vazio", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNewCustomerKey(t *testing.T) {
	withCode := RawRow{ResellerCode: "R001", Sector: "100", ResellerName: "Maria"}
	assert.Equal(t, CustomerKey{ResellerCode: "R001", Sector: "100"}, NewCustomerKey(withCode))

	// Sem código, a chave cai para nome_setor.
	withoutCode := RawRow{Sector: "100", ResellerName: "Maria"}
	assert.Equal(t, CustomerKey{ResellerCode: "Maria_100", Sector: "100"}, NewCustomerKey(withoutCode))
}

func TestEmptyKey(t *testing.T) {
	assert.True(t, EmptyKey.IsEmpty())
	assert.NotEmpty(t, string(EmptyKey))
	assert.False(t, NormalizedKey("00123").IsEmpty())
}
