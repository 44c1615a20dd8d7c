package models

import "time"

// Account is one player row. PasswordHash and Salt are base64 text and never
// leave the server; Version guards conditional updates.
type Account struct {
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	Salt            string    `json:"-"`
	Balance         float64   `json:"balance"`
	Level           int       `json:"level"`
	LastCollectedAt time.Time `json:"last_collected_at"`
	Version         int64     `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// AccountView is the response projection of an Account.
type AccountView struct {
	Username        string    `json:"username"`
	Balance         float64   `json:"balance"`
	Level           int       `json:"level"`
	LastCollectedAt time.Time `json:"last_collected_at"`
	Production      float64   `json:"production"`
	NextLevelCost   float64   `json:"next_level_cost"`
}
