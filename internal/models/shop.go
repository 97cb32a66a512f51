package models

type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ShopEmployee is a shop_user row.
type ShopEmployee struct {
	ID     int64 `json:"id"`
	ShopID int64 `json:"shopId"`
	UserID int64 `json:"userId"`
}

type ShopOrder struct {
	ID         int64 `json:"id"`
	ShopID     int64 `json:"shopId"`
	CustomerID int64 `json:"customerId"`
}

type ShopApplication struct {
	ID     int64 `json:"id"`
	ShopID int64 `json:"shopId"`
	UserID int64 `json:"userId"`
	RoleID int64 `json:"roleId"`
}
