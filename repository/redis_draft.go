package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"WardCare360/models"
	"WardCare360/util"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisDrafts keeps discharge drafts as JSON under util.DraftKey so expiry is enforced by redis.
type RedisDrafts struct {
	client *redis.Client
}

func NewRedisDrafts(client *redis.Client) *RedisDrafts {
	return &RedisDrafts{client: client}
}

func (r *RedisDrafts) Put(ctx context.Context, draft *models.DischargeDraft, ttl time.Duration) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, util.DraftKey+draft.DraftID, raw, ttl).Err(); err != nil {
		log.Println("Error from redis while storing draft: ", err)
		return err
	}
	return nil
}

func (r *RedisDrafts) Get(ctx context.Context, draftID string) (*models.DischargeDraft, error) {
	raw, err := r.client.Get(ctx, util.DraftKey+draftID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Println("Error from redis while fetching draft: ", err)
		return nil, err
	}
	draft := &models.DischargeDraft{}
	if err := json.Unmarshal(raw, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (r *RedisDrafts) Delete(ctx context.Context, draftID string) error {
	return r.client.Del(ctx, util.DraftKey+draftID).Err()
}
