package ledger

import "github.com/congo-pay/congo_ledger/internal/money"

// Kind tags a Transaction.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindTransfer Kind = "transfer"
)

// Transaction is a requested balance movement. To is only meaningful for
// transfers.
type Transaction struct {
	Kind   Kind
	Amount money.Money
	To     AccountID
}

func Deposit(amount money.Money) Transaction {
	return Transaction{Kind: KindDeposit, Amount: amount}
}

func Withdraw(amount money.Money) Transaction {
	return Transaction{Kind: KindWithdraw, Amount: amount}
}

func Transfer(to AccountID, amount money.Money) Transaction {
	return Transaction{Kind: KindTransfer, Amount: amount, To: to}
}
