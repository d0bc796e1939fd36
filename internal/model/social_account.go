package model

import "github.com/google/uuid"

// SocialAccount links an identity at an external OAuth provider to a
// local user.  The (SocialID, SocialName) pair is unique.
type SocialAccount struct {
	ID         string // social_accounts.id
	UserID     string // social_accounts.user_id
	SocialID   string // provider-side user id
	SocialName string // provider name, e.g. yandex
}

func NewSocialAccount(userID, socialID, provider string) SocialAccount {
	return SocialAccount{ID: uuid.NewString(), UserID: userID, SocialID: socialID, SocialName: provider}
}
