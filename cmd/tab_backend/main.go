package main

import "github.com/SscSPs/club_tab_app/internal/cli"

// @title Club Tab API
// @version 1.0
// @description Tab and credit ledger for a members' club, used from a Telegram Mini App.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cli.Execute()
}
