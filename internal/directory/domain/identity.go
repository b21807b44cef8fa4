package domain

// Identity is a stable directory identity resolved from a username or
// display name.
type Identity struct {
	ID             string `json:"id"`
	SamAccountName string `json:"sam_account_name"`
	DisplayName    string `json:"display_name"`
	OfficeLocation string `json:"office_location"`
}
