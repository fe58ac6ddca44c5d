package simplify

import (
	"cmp"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/cleared-dev/settle/internal/collections"
	"github.com/cleared-dev/settle/internal/model"
)

// Balances maps a participant to credits minus debts. Positive means the
// participant is owed money.
type Balances map[string]model.Money

// NetBalances computes every participant's net position in txs.
// Participants whose position nets to zero are kept with a zero entry.
func NetBalances(txs []model.BasicTransaction) Balances {
	b := make(Balances)
	for _, tx := range txs {
		b[tx.Debtor] -= tx.Amount
		b[tx.Creditor] += tx.Amount
	}
	return b
}

// Sum returns the total of all balances. It is zero for any balances
// derived from transactions.
func (b Balances) Sum() model.Money {
	var total model.Money
	for _, v := range b {
		total += v
	}
	return total
}

// Equal reports whether b and other agree on every participant,
// treating a missing participant as zero.
func (b Balances) Equal(other Balances) bool {
	for k, v := range b {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Participants returns every name in b in ascending order.
func (b Balances) Participants() []string {
	return collections.SortedKeys(b)
}

// Open returns the participants with a non-zero balance, sorted by name.
func (b Balances) Open() []string {
	var out []string
	for _, p := range b.Participants() {
		if b[p] != 0 {
			out = append(out, p)
		}
	}
	return out
}

// Outstanding returns the total owed by debtors, which equals the total
// owed to creditors.
func (b Balances) Outstanding() model.Money {
	var total model.Money
	for _, v := range b {
		if v < 0 {
			total -= v
		}
	}
	return total
}

type position struct {
	name   string
	amount model.Money // absolute value
}

// split partitions the open participants into debtors and creditors, each
// ordered largest first with ties broken by name.
func (b Balances) split() (debtors, creditors []position) {
	for _, p := range b.Participants() {
		switch v := b[p]; {
		case v < 0:
			debtors = append(debtors, position{p, -v})
		case v > 0:
			creditors = append(creditors, position{p, v})
		}
	}
	byAmount := func(a, b position) int {
		if c := cmp.Compare(b.amount, a.amount); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	}
	slices.SortStableFunc(debtors, byAmount)
	slices.SortStableFunc(creditors, byAmount)
	return debtors, creditors
}

// netSettle walks debtors and creditors in descending order of size,
// transferring the smaller of the two open amounts until every balance is
// zero. It emits at most n-1 transfers for n open participants.
func netSettle(b Balances) []model.BasicTransaction {
	debtors, creditors := b.split()
	out := make([]model.BasicTransaction, 0, len(debtors)+len(creditors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]
		amount := model.MinMoney(d.amount, c.amount)
		out = append(out, model.BasicTransaction{Debtor: d.name, Creditor: c.name, Amount: amount})
		d.amount -= amount
		c.amount -= amount
		if d.amount == 0 {
			i++
		}
		if c.amount == 0 {
			j++
		}
	}
	return out
}
