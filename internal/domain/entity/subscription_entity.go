package entity

import "time"

// Subscription links a subscriber to a channel (both users).
type Subscription struct {
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}
