package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNoParticipants    = errors.New("must have at least one participant")
	ErrNegativeShare     = errors.New("split amount cannot be negative")
	ErrSplitMismatch     = errors.New("split amounts do not add up to the expense amount")
	ErrZeroSubtotal      = errors.New("subtotal cannot be zero")
)

// PersonSplit represents the calculated itemized split for one person
type PersonSplit struct {
	ParticipantID string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// Item represents a single item on a receipt
type Item struct {
	Description string
	Amount      decimal.Decimal
	AssignedTo  []string
}

// EqualSplit divides amount between the payer and every other member.
// Shares are cent-exact: the cents that do not divide evenly go one each to the
// first participants, other members before the payer, so the shares always add
// up to amount.
func EqualSplit(amount decimal.Decimal, payerID string, members []string) ([]Split, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	participants := make([]string, 0, len(members)+1)
	for _, m := range members {
		if m != payerID {
			participants = append(participants, m)
		}
	}
	if payerID != "" {
		participants = append(participants, payerID)
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	n := decimal.NewFromInt(int64(len(participants)))
	base := amount.Div(n).Truncate(2)
	remainder := amount.Sub(base.Mul(n))
	extraCents := remainder.Div(tolerance).Floor().IntPart()
	dust := remainder.Sub(tolerance.Mul(decimal.NewFromInt(extraCents)))

	splits := make([]Split, len(participants))
	for i, p := range participants {
		share := base
		if int64(i) < extraCents {
			share = share.Add(tolerance)
		}
		splits[i] = Split{ParticipantID: p, Amount: share}
	}
	splits[0].Amount = splits[0].Amount.Add(dust)

	return splits, nil
}

// ValidateSplits checks a custom split against the expense amount.
// The shares must add up to amount within Tolerance().
func ValidateSplits(amount decimal.Decimal, splits []Split) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if len(splits) == 0 {
		return ErrNoParticipants
	}

	sum := decimal.Zero
	for _, s := range splits {
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeShare, s.ParticipantID)
		}
		sum = sum.Add(s.Amount)
	}

	if sum.Sub(amount).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("%w: the sum of splits (%s) doesn't equal the total amount (%s)",
			ErrSplitMismatch, sum.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// ItemizedSplit computes how much each person owes including proportional tax.
// Based on the algorithm: person_total = person_subtotal × (1 + (total_tax / bill_subtotal))
// Results follow the order of participants. Subtotal and Tax are exact; Total is
// rounded to cents so the totals add up to billTotal whenever the exact totals
// are within Tolerance() of it.
func ItemizedSplit(items []Item, billTotal, billSubtotal decimal.Decimal, participants []string) ([]PersonSplit, error) {
	if billSubtotal.IsZero() {
		return nil, ErrZeroSubtotal
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	tax := billTotal.Sub(billSubtotal)
	splits := make([]PersonSplit, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		splits[i] = PersonSplit{
			ParticipantID: p,
			Subtotal:      decimal.Zero,
			Tax:           decimal.Zero,
			Total:         decimal.Zero,
		}
		index[p] = i
	}

	// If no items, split total equally among all participants
	if len(items) == 0 {
		n := decimal.NewFromInt(int64(len(participants)))
		for i := range splits {
			splits[i].Subtotal = billSubtotal.Div(n)
			splits[i].Tax = tax.Div(n)
		}
		roundTotals(splits, billTotal)
		return splits, nil
	}

	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}

		perPerson := item.Amount.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
		for _, person := range item.AssignedTo {
			if i, ok := index[person]; ok {
				splits[i].Subtotal = splits[i].Subtotal.Add(perPerson)
			}
		}
	}

	rate := tax.Div(billSubtotal)
	for i := range splits {
		splits[i].Tax = splits[i].Subtotal.Mul(rate)
	}
	roundTotals(splits, billTotal)

	return splits, nil
}

// roundTotals sets each Total to its cent-rounded Subtotal + Tax.
func roundTotals(splits []PersonSplit, billTotal decimal.Decimal) {
	exact := make([]decimal.Decimal, len(splits))
	sum := decimal.Zero
	for i, s := range splits {
		exact[i] = s.Subtotal.Add(s.Tax)
		sum = sum.Add(exact[i])
	}

	target := sum.Round(2)
	if sum.Sub(billTotal).Abs().LessThanOrEqual(tolerance) {
		target = billTotal
	}
	for i, total := range allocateCents(target, exact) {
		splits[i].Total = total
	}
}

// allocateCents rounds shares down to cents, then hands out the cents still
// needed to reach target one each, largest remainder first (ties keep input
// order). When the truncated shares already exceed target, cents come back off
// the smallest remainders. Sub-cent dust in target goes to the first non-zero
// share. Shares must not be negative.
func allocateCents(target decimal.Decimal, shares []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(shares))
	if len(shares) == 0 {
		return out
	}

	order := make([]int, len(shares))
	sum := decimal.Zero
	for i, s := range shares {
		out[i] = s.Truncate(2)
		sum = sum.Add(out[i])
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return shares[b].Sub(out[b]).Cmp(shares[a].Sub(out[a]))
	})

	leftover := target.Sub(sum)
	cents := leftover.Div(tolerance).Floor().IntPart()
	dust := leftover.Sub(tolerance.Mul(decimal.NewFromInt(cents)))

	for k := int64(0); k < cents; k++ {
		i := order[k%int64(len(order))]
		out[i] = out[i].Add(tolerance)
	}
	for k, taken := len(order)-1, int64(0); taken < -cents && k >= 0; k-- {
		if i := order[k]; out[i].GreaterThanOrEqual(tolerance) {
			out[i] = out[i].Sub(tolerance)
			taken++
		}
	}

	if !dust.IsZero() {
		first := order[0]
		for i := range out {
			if !out[i].IsZero() {
				first = i
				break
			}
		}
		out[first] = out[first].Add(dust)
	}
	return out
}
