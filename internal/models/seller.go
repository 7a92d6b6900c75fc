package models

// SellerType distinguishes owners from agents.
type SellerType string

const (
	SellerOwner SellerType = "OWNER"
	SellerAgent SellerType = "AGENT"
)

// Seller is identified remotely by its (email, phone) pair; the ID is
// assigned by the upsert.
type Seller struct {
	SellerID   int64      `json:"sellerId,omitempty"`
	SellerName string     `json:"sellerName"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	SellerType SellerType `json:"sellerType"`
}

// SellerRef is the reference embedded in a property create payload.
func SellerRef(id int64) *Seller {
	return &Seller{SellerID: id}
}
