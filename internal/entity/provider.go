package entity

import "github.com/google/uuid"

// ProviderProfile is the slice of the provider directory this core
// consumes: identity resolution and category matching.
type ProviderProfile struct {
	Id          uuid.UUID  `json:"id" db:"id"`
	UserId      uuid.UUID  `json:"userId" db:"user_id"`
	CategoryId  *uuid.UUID `json:"categoryId" db:"category_id"`
	DisplayName string     `json:"displayName" db:"display_name"`
}

// NotificationMeta is the structured payload attached to an outbound
// notification.
type NotificationMeta struct {
	AuctionId         string `json:"auctionId,omitempty"`
	BidId             string `json:"bidId,omitempty"`
	ProviderId        string `json:"providerId,omitempty"`
	ProviderUserId    string `json:"providerUserId,omitempty"`
	ServiceTitle      string `json:"serviceTitle,omitempty"`
	ProposedPrice     string `json:"proposedPrice,omitempty"`
	EstimatedDuration string `json:"estimatedDuration,omitempty"`
	ActionUrl         string `json:"actionUrl,omitempty"`
	RelatedEntityType string `json:"relatedEntityType,omitempty"`
	RelatedEntityId   string `json:"relatedEntityId,omitempty"`
}
