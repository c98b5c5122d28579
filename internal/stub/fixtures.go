package stub

import (
	_ "embed"
	"fmt"

	"snug/internal/api"
	"snug/internal/jsonutil"
)

//go:embed pubs.json
var pubsFixture []byte

// LoadFixturePubs decodes the embedded dev pub set.
func LoadFixturePubs() ([]api.Pub, error) {
	return jsonutil.UnmarshalArray[api.Pub](pubsFixture, "decode pub fixture")
}

// DemoUser is one throwaway dev account.
type DemoUser struct {
	ID       string
	Email    string
	Name     string
	Password string
}

// DemoUsers are the accounts every stub boot knows about.
var DemoUsers = []DemoUser{
	{ID: "u-robin", Email: "robin@snug.local", Name: "Robin", Password: "pint-please"},
	{ID: "u-ash", Email: "ash@snug.local", Name: "Ash", Password: "pint-please"},
	{ID: "u-sam", Email: "sam@snug.local", Name: "Sam", Password: "pint-please"},
}

// SeedDemoUsers registers the demo accounts.
func SeedDemoUsers(auth *Auth) error {
	for _, d := range DemoUsers {
		if err := auth.AddUser(d.ID, d.Email, d.Name, d.Password); err != nil {
			return fmt.Errorf("seed user %s: %w", d.Email, err)
		}
	}
	return nil
}
