package domain

// MatchOutcome classifica o resultado da conciliação de uma linha
// contra o catálogo. Exatamente um desfecho por linha.
type MatchOutcome int

const (
	OutcomeUnmatched MatchOutcome = iota
	OutcomeMatched
	OutcomeAmbiguous
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeMatched:
		return "MATCHED"
	case OutcomeAmbiguous:
		return "AMBIGUO"
	default:
		return "NAO_ENCONTRADO"
	}
}

// MatchReason registra a estratégia que resolveu (ou não) o SKU.
// Os matches por zero à esquerda são legítimos mas entram na
// auditoria como indício de problema de formatação na origem.
type MatchReason string

const (
	MatchExact              MatchReason = "MATCH_EXATO"
	MatchLeadingZeroAdded   MatchReason = "MATCH_COM_ZERO"
	MatchLeadingZeroTrimmed MatchReason = "MATCH_SEM_ZERO"
	MatchNotFound           MatchReason = "NAO_ENCONTRADO"
)

// MatchResult marca uma RawRow com o desfecho da conciliação.
// Product só é preenchido quando Outcome == OutcomeMatched;
// Candidates só quando OutcomeAmbiguous.
type MatchResult struct {
	Row        RawRow
	Key        NormalizedKey
	Outcome    MatchOutcome
	Reason     MatchReason
	Product    *ProductRecord
	Candidates []ProductRecord
}
