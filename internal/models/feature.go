package models

type Feature struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	CreatedUserID int64  `json:"createdUserId"`
}

type FeatureMessage struct {
	ID        int64 `json:"id"`
	FeatureID int64 `json:"featureId"`
	UserID    int64 `json:"userId"`
	StaffOnly bool  `json:"staffOnly"`
}

// Gift covers both Bell Shop gifts and donations made in another user's name.
type Gift struct {
	ID          int64  `json:"id"`
	GifterID    int64  `json:"gifterId"`
	RecipientID int64  `json:"recipientId"`
	ItemName    string `json:"itemName,omitempty"`
}
