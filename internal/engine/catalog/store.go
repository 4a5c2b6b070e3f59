package catalog

import "sync/atomic"

// Store publica o índice ativo do catálogo sob a disciplina
// um-escritor/muitos-leitores. A troca é um swap atômico de ponteiro:
// lookups em voo continuam no índice antigo e nunca enxergam um
// índice parcialmente construído.
type Store struct {
	current atomic.Pointer[Index]
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(BuildIndex("", nil))
	return s
}

// Current devolve o índice ativo. Nunca retorna nil; antes da
// primeira importação o índice é vazio e toda linha resolve como
// não encontrada.
func (s *Store) Current() *Index {
	return s.current.Load()
}

// Swap publica um índice recém-construído e devolve o anterior.
func (s *Store) Swap(idx *Index) *Index {
	return s.current.Swap(idx)
}
