package simplify

import "github.com/cleared-dev/settle/internal/model"

// greedy settles b by repeatedly pairing the largest debtor with the largest
// creditor. Runs in O(n log n) for n participants; the result is not always
// the shortest possible.
func greedy(b Balances) []model.BasicTransaction {
	return netSettle(b)
}
