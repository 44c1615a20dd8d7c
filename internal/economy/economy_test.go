package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/idle-clicker/internal/models"
)

func TestProduction(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, 1.0, p.Production(0))
	assert.Equal(t, 2.0, p.Production(1))
	assert.Equal(t, 3.0, p.Production(2))
	assert.Equal(t, 7.0, p.Production(5))
}

func TestProduction_NonDecreasing(t *testing.T) {
	p := DefaultParams()
	prev := p.Production(0)
	for level := 1; level <= 200; level++ {
		cur := p.Production(level)
		require.GreaterOrEqual(t, cur, prev, "level %d", level)
		prev = cur
	}
}

func TestCostOfLevel(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, 5.0, p.CostOfLevel(0))
	assert.Equal(t, 6.0, p.CostOfLevel(1))
	assert.Equal(t, 7.0, p.CostOfLevel(2))
	assert.Equal(t, 8.0, p.CostOfLevel(3))
	assert.Equal(t, 10.0, p.CostOfLevel(5))
}

func TestCostOfLevel_StrictlyIncreasing(t *testing.T) {
	p := DefaultParams()
	for level := 0; level < 200; level++ {
		require.Greater(t, p.CostOfLevel(level+1), p.CostOfLevel(level), "level %d", level)
	}
}

func TestAccrue(t *testing.T) {
	p := DefaultParams()
	last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	account := models.Account{Username: "alice", Balance: 1, Level: 2, LastCollectedAt: last}

	now := last.Add(10 * time.Second)
	got := p.Accrue(account, now)

	assert.Equal(t, 31.0, got.Balance)
	assert.Equal(t, now, got.LastCollectedAt)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 1.0, account.Balance, "input must not be mutated")
	assert.Equal(t, last, account.LastCollectedAt)
}

func TestAccrue_ZeroElapsed(t *testing.T) {
	p := DefaultParams()
	last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	account := models.Account{Balance: 42.5, Level: 3, LastCollectedAt: last}

	got := p.Accrue(account, account.LastCollectedAt)
	assert.Equal(t, account.Balance, got.Balance)
	assert.Equal(t, last, got.LastCollectedAt)
}

func TestAccrue_ClockSkew(t *testing.T) {
	p := DefaultParams()
	last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	account := models.Account{Balance: 10, Level: 1, LastCollectedAt: last}

	got := p.Accrue(account, last.Add(-time.Minute))
	assert.Equal(t, 10.0, got.Balance)
	assert.Equal(t, last, got.LastCollectedAt, "timestamp must never move backwards")
}

func TestAccrue_FractionalSeconds(t *testing.T) {
	p := DefaultParams()
	last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	account := models.Account{LastCollectedAt: last}

	got := p.Accrue(account, last.Add(1500*time.Millisecond))
	assert.InDelta(t, 1.5, got.Balance, 1e-9)
}

func TestResolveUpgrade_InsufficientFunds(t *testing.T) {
	p := DefaultParams()

	_, err := p.ResolveUpgrade(models.Account{Balance: 4, Level: 0})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = p.ResolveUpgrade(models.Account{Balance: 0, Level: 0})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestResolveUpgrade(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name      string
		balance   float64
		level     int
		wantLevel int
		wantCost  float64
	}{
		{name: "exactly one level", balance: 6, level: 0, wantLevel: 1, wantCost: 6},
		{name: "two levels with change", balance: 20, level: 0, wantLevel: 2, wantCost: 13},
		{name: "exact cumulative cost", balance: 21, level: 0, wantLevel: 3, wantCost: 21},
		{name: "from a higher level", balance: 100, level: 2, wantLevel: 9, wantCost: 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := p.ResolveUpgrade(models.Account{Balance: tt.balance, Level: tt.level})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, quote.Level)
			assert.Equal(t, tt.wantCost, quote.Cost)
		})
	}
}

func TestResolveUpgrade_BoundAndMaximal(t *testing.T) {
	p := DefaultParams()
	for level := 0; level <= 30; level += 3 {
		for balance := 0.0; balance <= 5000; balance += 37.25 {
			account := models.Account{Balance: balance, Level: level}
			quote, err := p.ResolveUpgrade(account)
			if err != nil {
				require.ErrorIs(t, err, ErrInsufficientFunds)
				require.Less(t, balance, p.CostOfLevel(level+1))
				continue
			}
			require.Greater(t, quote.Level, level)
			require.LessOrEqual(t, quote.Cost, balance)
			require.Greater(t, quote.Cost+p.CostOfLevel(quote.Level+1), balance,
				"level %d balance %v: a higher level was affordable", level, balance)
		}
	}
}

func TestResolveUpgrade_Deterministic(t *testing.T) {
	p := DefaultParams()
	account := models.Account{Balance: 1234.5, Level: 7}

	first, err := p.ResolveUpgrade(account)
	require.NoError(t, err)
	second, err := p.ResolveUpgrade(account)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApplyUpgrade(t *testing.T) {
	account := models.Account{Username: "bob", Balance: 20, Level: 0}

	got := ApplyUpgrade(account, UpgradeQuote{Level: 2, Cost: 13})
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 7.0, got.Balance)
	assert.Equal(t, 0, account.Level)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.CostMultiplier = 1
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.BaseProduction = -1
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.BaseCost = 0.1
	assert.Error(t, bad.Validate())
}

func TestView(t *testing.T) {
	p := DefaultParams()
	account := models.Account{Username: "carol", PasswordHash: "h", Salt: "s", Balance: 3, Level: 1}

	v := p.View(account)
	assert.Equal(t, "carol", v.Username)
	assert.Equal(t, 2.0, v.Production)
	assert.Equal(t, 7.0, v.NextLevelCost)
}
