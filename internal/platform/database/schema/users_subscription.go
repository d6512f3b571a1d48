// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserSubscriptionTable represents the 'users.subscription' table.
//
// A row is a directed edge: SubscriberID follows ChannelID.
type UserSubscriptionTable struct {
	Table        string
	SubscriberID string
	ChannelID    string
	CreatedAt    string

	// SubscriberForeignKey is the constraint tying SubscriberID to an account.
	SubscriberForeignKey string
}

// UserSubscription is the schema definition for users.subscription
var UserSubscription = UserSubscriptionTable{
	Table:        "users.subscription",
	SubscriberID: "subscriberid",
	ChannelID:    "channelid",
	CreatedAt:    "createdat",

	SubscriberForeignKey: "subscription_subscriberid_fkey",
}
