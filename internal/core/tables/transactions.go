package tables

import (
	"math/rand/v2"

	"github.com/JonMunkholm/admindash/internal/core"
)

func init() {
	registerTransactions()
}

// Transaction statuses.
const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusFailed    = "Failed"
)

var (
	transactionStatuses = []string{StatusCompleted, StatusPending, StatusFailed}
	transactionTypes    = []string{"Deposit", "Transfer", "Withdraw"}
	transactionLabels   = []string{
		"Wallet Funding",
		"Bank Transfer",
		"ATM Withdrawal",
		"Internal Transfer",
		"Crypto Deposit",
		"Savings Withdrawal",
		"Peer Transfer",
		"Top-Up",
	}
)

func registerTransactions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "transactions",
			Group:       "Finance",
			Label:       "Transactions",
			Description: "Wallet deposits, transfers and withdrawals",
			EmptyText:   "No transactions found.",
			TextFilter:  true,
			DateFilter:  true,
			Draggable:   true,
		},
		Schema: core.Schema{
			Columns: []core.Column{
				{Key: "date", Label: "Date", Kind: core.KindDate, Sortable: true},
				{Key: "description", Label: "Description", Kind: core.KindText, Sortable: true},
				{Key: "type", Label: "Type", Kind: core.KindTag, Sortable: true},
				{Key: "amount", Label: "Amount", Kind: core.KindNumber, Sortable: true},
				{Key: "status", Label: "Status", Kind: core.KindTag, Sortable: true},
			},
			DisplayField: "description",
			DateField:    "date",
			TitleField:   "description",
		},
		PageSize: 10,
		Generate: func(rng *rand.Rand) []core.Record {
			return generateTransactions(rng, 20)
		},
	})
}

func generateTransactions(rng *rand.Rand, count int) []core.Record {
	out := make([]core.Record, count)
	for i := range out {
		out[i] = core.NewRecord(i+1, map[string]core.Value{
			"date":        core.Date(octoberDate(rng, 30)),
			"description": core.Text(pick(rng, transactionLabels)),
			"type":        core.Tag(pick(rng, transactionTypes)),
			"amount":      core.Number(round(rng.Float64()*2000+50, 2)),
			"status":      core.Tag(pick(rng, transactionStatuses)),
		})
	}
	return out
}
