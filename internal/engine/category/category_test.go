package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"BAT LIQ MATTE VERMELHO", "Maquiagem"},
		{"BATOM CREMOSO NUDE", "Maquiagem"},
		{"DES AER MASCULINO", "Desodorantes"},
		{"COL FLORATTA AZUL 75ML", "Perfumaria"},
		{"SIAGE SH REPARADOR", "Cabelos"},
		{"ESMALTE CREMOSO ROSA", "Unhas"},
		{"SACOLA PAPEL M", "Embalagens"},
		{"PRODUTO SEM PALAVRA CHAVE", Other},
		{"", Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestClassifyPrimeiraCategoriaVence(t *testing.T) {
	// "DEM " casa em Demonstradores antes de "BATOM" casar em
	// Maquiagem: a ordem das regras decide.
	assert.Equal(t, "Demonstradores", Classify("DEM BATOM CREMOSO"))
}

func TestClassifyBordasDoNome(t *testing.T) {
	// Palavras-chave com espaço de borda casam também no início e no
	// fim do nome, por causa do envelopamento em espaços.
	assert.Equal(t, "Perfumaria", Classify("EDP INTENSO"))
	assert.Equal(t, "Maquiagem", Classify("SOMBRA"))
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, "Demonstradores", names[0])
	assert.Equal(t, Other, names[len(names)-1])
	assert.Len(t, names, 16)
}
