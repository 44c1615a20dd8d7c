// Package economy holds the production and cost curves of the game and the
// operations that settle accrued currency and resolve level purchases.
//
// Every function is pure: it reads an Account snapshot and returns a new value.
// All per-level amounts are rounded half away from zero before they are summed,
// so replaying the same (level, balance) always gives the same answer.
package economy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crucial707/idle-clicker/internal/models"
)

// ErrInsufficientFunds is returned when the balance cannot pay for the next level.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Params are the tunable constants of the economy.
type Params struct {
	BaseProduction       float64
	ProductionMultiplier float64
	BaseCost             float64
	CostMultiplier       float64
}

// DefaultParams returns the curve the game ships with.
func DefaultParams() Params {
	return Params{
		BaseProduction:       1.0,
		ProductionMultiplier: 1.1,
		BaseCost:             5.0,
		CostMultiplier:       1.15,
	}
}

// Validate rejects curves that are not positive or whose cost does not grow.
func (p Params) Validate() error {
	switch {
	case !(p.BaseProduction > 0):
		return fmt.Errorf("economy: base production must be positive, got %v", p.BaseProduction)
	case !(p.ProductionMultiplier > 0):
		return fmt.Errorf("economy: production multiplier must be positive, got %v", p.ProductionMultiplier)
	case !(p.BaseCost > 0):
		return fmt.Errorf("economy: base cost must be positive, got %v", p.BaseCost)
	case !(p.CostMultiplier > 1):
		return fmt.Errorf("economy: cost multiplier must be greater than 1, got %v", p.CostMultiplier)
	case p.CostOfLevel(1) <= 0:
		return fmt.Errorf("economy: base cost %v rounds to a free first level", p.BaseCost)
	}
	return nil
}

// UpgradeQuote is the highest level an account can reach and what it costs in total.
type UpgradeQuote struct {
	Level int
	Cost  float64
}

// Production is the currency earned per second at the given level.
func (p Params) Production(level int) float64 {
	production := p.BaseProduction
	for i := 1; i <= level; i++ {
		production += math.Round(p.BaseProduction * math.Pow(p.ProductionMultiplier, float64(i)))
	}
	return production
}

// CostOfLevel is the price of buying the given level.
func (p Params) CostOfLevel(level int) float64 {
	return math.Round(p.BaseCost * math.Pow(p.CostMultiplier, float64(level)))
}

// Accrue credits the production earned between the last collection and now.
// A clock that went backwards yields zero elapsed time and keeps the stored timestamp.
func (p Params) Accrue(account models.Account, now time.Time) models.Account {
	updated := account
	elapsed := now.Sub(account.LastCollectedAt).Seconds()
	if elapsed <= 0 {
		return updated
	}
	updated.Balance = account.Balance + p.Production(account.Level)*elapsed
	updated.LastCollectedAt = now
	return updated
}

// ResolveUpgrade finds the highest level whose cumulative cost, starting from
// the account's next level, still fits in the balance.
func (p Params) ResolveUpgrade(account models.Account) (UpgradeQuote, error) {
	level := account.Level + 1
	total := p.CostOfLevel(level)
	if account.Balance < total {
		return UpgradeQuote{}, ErrInsufficientFunds
	}

	for {
		next := p.CostOfLevel(level + 1)
		if next <= 0 || total+next > account.Balance {
			break
		}
		total += next
		level++
	}

	return UpgradeQuote{Level: level, Cost: total}, nil
}

// ApplyUpgrade returns the account after paying for quote.
func ApplyUpgrade(account models.Account, quote UpgradeQuote) models.Account {
	updated := account
	updated.Level = quote.Level
	updated.Balance = math.Max(0, account.Balance-quote.Cost)
	return updated
}

// View projects an account for responses, adding the derived rates.
func (p Params) View(account models.Account) models.AccountView {
	return models.AccountView{
		Username:        account.Username,
		Balance:         account.Balance,
		Level:           account.Level,
		LastCollectedAt: account.LastCollectedAt,
		Production:      p.Production(account.Level),
		NextLevelCost:   p.CostOfLevel(account.Level + 1),
	}
}
