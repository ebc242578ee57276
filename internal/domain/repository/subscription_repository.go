package repository

import "context"

// SubscriptionRepository manages subscriber/channel links.
type SubscriptionRepository interface {
	// Toggle subscribes when no link exists and unsubscribes otherwise,
	// returning the resulting state.
	Toggle(ctx context.Context, subscriberID, channelID string) (subscribed bool, err error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}
