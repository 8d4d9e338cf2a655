package models

// User is a member record used for username/PIN login.
type User struct {
	Username    string `json:"user"`
	PinCode     string `json:"pin_code"`
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
}
