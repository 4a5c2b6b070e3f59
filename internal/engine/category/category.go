// Package category classifica produtos em categorias a partir de
// palavras-chave no nome. A classificação é pura e determinística,
// pensada para os nomes abreviados que as planilhas de venda trazem
// ("BAT LIQ MATTE", "DES AER", "COL MASC").
package category

import "strings"

// Other recebe os produtos que não casam com nenhuma palavra-chave.
const Other = "Outros"

type rule struct {
	name     string
	keywords []string
}

// A ordem importa: a primeira categoria que casar vence, então as
// mais específicas vêm antes das genéricas.
var rules = []rule{
	{"Demonstradores", []string{
		"DEM ", "DEMON", "DEMONSTRAD", "DEMONSTRADOR", " CJ ", "CJ ", " FLAC", "FLAC ",
	}},
	{"Cabelos", []string{
		"SIAGE", "SIÀGE", "MATCH",
	}},
	{"Maquiagem", []string{
		"GLAM", "PO COMP", " PO ", "CORR LIQ", " CORR ", "MASC CILIO", " MASC ",
		"BASE LIQ", "BASE STICK", " BASE ", " BAS ", "GLOSS", " GLOS ",
		"BLUSH LIQ", " BLUSH ", "BAT LIQ", " BAT ", " SOUL ", "BALM",
		"GLIT", "OIL SHIN", "PLT MULTIF", " PLT ", "CORRET", "LAP OLH",
		" ILUM ", "PRIMER", "SOMBRA", " SOMB ", "SOBRANC", " MAKE ",
		"FAC STICK", "HID LAB", "BATOM",
	}},
	{"Perfumaria", []string{
		" COL ", " EDP ", "EDP ", " COL",
	}},
	{"Barba", []string{
		"BARB", "BARBA",
	}},
	{"Acessorios", []string{
		"PINCEL", "PINCEIS", "NECESS", "NECESSAIRE", "PALETA", "MASSAG",
		"MASSAGEADOR", "APONTADOR", "ESPONJA", "ESPNJ", "FRASQUEIRA",
		"VAPORIZADOR", "MALETA", "TOALHA", " CASE ", "BOLSA", "CURVADOR",
		" CLIP ", "PORTA ", "ESPELHO", "LENCO", " LUVA",
	}},
	{"Cuidados com a Pele", []string{
		" CPO ", "CORPORAL", " MAO ", " MAOS ", " HID ", "INSTANCE CR",
	}},
	{"Cuidados Faciais", []string{
		" FAC ", "NEO DERMO", "NEO D", " SKIN ", "SKINQ", "FACIAL",
	}},
	{"Desodorantes", []string{
		" DES ", "ROLL ON", " AER ", "AEROSSOL", "ANTIT", " ANT ",
		" SPR ", "BDY SPR",
	}},
	{"Embalagens", []string{
		"SACOLA", "KIT TAG", " TAG ",
	}},
	{"Gifts", []string{
		"PMPCK", " ESTJ ", " KIT ",
	}},
	{"Sabonete Corpo", []string{
		"ESF CPO", "SAB BARR", " SAB ", " SHW ", "SHW GEL",
	}},
	{"Solar", []string{
		" SOL ", " PR ", " PROT ", "PROT ",
	}},
	{"Unhas", []string{
		"ESMLT", "ESMALTE",
	}},
	{"Oleos", []string{
		" OL ", "OLEO", "ÓLEO",
	}},
}

// Classify devolve a categoria de um produto pelo nome. O nome é
// envolvido em espaços antes da busca, para que palavras-chave com
// borda (" BAT ") casem também no início e no fim do texto.
func Classify(productName string) string {
	if productName == "" {
		return Other
	}

	padded := " " + strings.ToUpper(productName) + " "
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(padded, keyword) {
				return r.name
			}
		}
	}

	return Other
}

// Names lista as categorias conhecidas na ordem de precedência,
// com Other por último.
func Names() []string {
	names := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		names = append(names, r.name)
	}
	return append(names, Other)
}
