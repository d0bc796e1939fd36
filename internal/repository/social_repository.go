package repository

import (
	"context"

	"github.com/iliyamo/auth-service/internal/model"
)

// SocialRepo stores links between provider identities and local users.
type SocialRepo struct{ conn }

// Create inserts a. An already linked identity yields ErrConflict.
func (r *SocialRepo) Create(ctx context.Context, a model.SocialAccount) error {
	_, err := r.exec(ctx,
		"INSERT INTO social_accounts (id, user_id, social_id, social_name) VALUES (?,?,?,?)",
		a.ID, a.UserID, a.SocialID, a.SocialName)
	return r.translate(err)
}

// GetByIdentity looks up the link for (socialID, provider).
func (r *SocialRepo) GetByIdentity(ctx context.Context, socialID, provider string) (model.SocialAccount, error) {
	var a model.SocialAccount
	err := r.queryRow(ctx,
		"SELECT id, user_id, social_id, social_name FROM social_accounts WHERE social_id=? AND social_name=?",
		socialID, provider).Scan(&a.ID, &a.UserID, &a.SocialID, &a.SocialName)
	if err != nil {
		return model.SocialAccount{}, r.translate(err)
	}
	return a, nil
}

// CountForUser returns how many identities are linked to userID.
func (r *SocialRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.queryRow(ctx, "SELECT COUNT(*) FROM social_accounts WHERE user_id=?", userID).Scan(&n)
	return n, err
}
