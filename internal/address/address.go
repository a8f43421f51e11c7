package address

// Address is a shipping destination owned by one user.
type Address struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}
