package constants

// TxType classifies a transaction candidate by sign.
type TxType string

const (
	TxIncome  TxType = "income"
	TxExpense TxType = "expense"
)

// CanonicalTxType maps free-form input to a TxType, defaulting to expense
// the way the import route always has.
func CanonicalTxType(input string) TxType {
	if input == string(TxIncome) {
		return TxIncome
	}
	return TxExpense
}
