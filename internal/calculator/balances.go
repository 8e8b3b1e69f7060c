package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// tolerance is one cent. Read it through Tolerance.
var tolerance = decimal.New(1, -2)

// Tolerance returns the absolute amount below which a balance counts as settled
// and a transfer is not worth emitting. The same value drives both decisions.
func Tolerance() decimal.Decimal {
	return tolerance
}

// transferPlaces is the number of decimal places emitted transfers are rounded to.
const transferPlaces = 2

// Split is one participant's owed share of an expense.
type Split struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// Expense represents an expense with the minimal information needed for balance calculations.
type Expense struct {
	PayerID string
	Amount  decimal.Decimal
	Splits  []Split
}

// Balance is the net position of one participant.
// Positive = is owed money, Negative = owes money.
type Balance struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// Balances holds net balances in order of first appearance.
type Balances []Balance

// Get returns the balance of the given participant, or zero if absent.
func (b Balances) Get(participantID string) decimal.Decimal {
	for _, bal := range b {
		if bal.ParticipantID == participantID {
			return bal.Amount
		}
	}
	return decimal.Zero
}

// Sum returns the sum of all balances. For self-consistent expenses it is zero.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, bal := range b {
		sum = sum.Add(bal.Amount)
	}
	return sum
}

// Transfer is a payment from a debtor to a creditor.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// Plan is the result of settling a set of balances.
type Plan struct {
	Transfers []Transfer

	// Residual holds the balances left unmatched once no counterparty remains.
	// It is only non-empty when the input balances do not sum to zero.
	Residual []Balance
}

// IsSettled reports whether amount is within Tolerance of zero.
func IsSettled(amount decimal.Decimal) bool {
	return amount.Abs().LessThanOrEqual(tolerance)
}

// ComputeNetBalances folds expenses into one net balance per participant.
//
// Every participant in the roster starts at zero, so members without expenses
// still appear. For each expense the payer is credited the full amount and each
// split participant is debited their share; a payer who is also in the splits
// gets both adjustments. Ids that only show up in expense data are added on
// first reference.
//
// The result is ordered by first appearance. No input is rejected.
func ComputeNetBalances(expenses []Expense, participants []string) Balances {
	index := make(map[string]int, len(participants))
	balances := make(Balances, 0, len(participants))

	add := func(id string, delta decimal.Decimal) {
		i, ok := index[id]
		if !ok {
			i = len(balances)
			index[id] = i
			balances = append(balances, Balance{ParticipantID: id, Amount: decimal.Zero})
		}
		balances[i].Amount = balances[i].Amount.Add(delta)
	}

	for _, p := range participants {
		add(p, decimal.Zero)
	}

	for _, expense := range expenses {
		add(expense.PayerID, expense.Amount)
		for _, split := range expense.Splits {
			add(split.ParticipantID, split.Amount.Neg())
		}
	}

	return balances
}

// Settle computes a settlement plan for the given balances.
//
// Algorithm:
//   - Drop balances within Tolerance of zero
//   - Sort the rest ascending once: largest debtor first, largest creditor last
//   - Pair the front debtor with the back creditor and move min(|debtor|, creditor)
//   - Emit the move (rounded to cents) if it exceeds Tolerance
//   - Step past whichever side is now settled; both can settle in one step
//   - Stop once no debtor/creditor pair is left; leftovers go to Plan.Residual
//
// Every step settles at least one participant, so N non-zero balances produce
// at most N-1 transfers. The input slice is not modified.
func Settle(balances []Balance) Plan {
	working := make([]Balance, 0, len(balances))
	for _, bal := range balances {
		if !IsSettled(bal.Amount) {
			working = append(working, bal)
		}
	}

	slices.SortStableFunc(working, func(a, b Balance) int {
		return a.Amount.Cmp(b.Amount)
	})

	var plan Plan
	i, j := 0, len(working)-1
	for i < j && working[i].Amount.IsNegative() && working[j].Amount.IsPositive() {
		debtor := &working[i]
		creditor := &working[j]

		amount := decimal.Min(debtor.Amount.Abs(), creditor.Amount)

		if amount.GreaterThan(tolerance) {
			plan.Transfers = append(plan.Transfers, Transfer{
				From:   debtor.ParticipantID,
				To:     creditor.ParticipantID,
				Amount: amount.Round(transferPlaces),
			})
		}

		debtor.Amount = debtor.Amount.Add(amount)
		creditor.Amount = creditor.Amount.Sub(amount)

		if IsSettled(debtor.Amount) {
			i++
		}
		if IsSettled(creditor.Amount) {
			j--
		}
	}

	// Anything left over means the balances did not conserve.
	for k := i; k <= j; k++ {
		if !IsSettled(working[k].Amount) {
			plan.Residual = append(plan.Residual, working[k])
		}
	}

	return plan
}

// Simplify returns the minimal list of transfers that zeroes the balances.
func Simplify(balances []Balance) []Transfer {
	return Settle(balances).Transfers
}

// CalculateBalances runs the aggregation and simplification pipeline.
func CalculateBalances(expenses []Expense, participants []string) []Transfer {
	return Simplify(ComputeNetBalances(expenses, participants))
}
