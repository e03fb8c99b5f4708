package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog_service/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// KeyBlobImage: blob:image:{name} -> raw image bytes
const KeyBlobImage = "blob:image:%s"

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// RedisBlobStore keeps blobs as plain string values without expiry.
type RedisBlobStore struct {
	rdb redis.Cmdable
	log *logrus.Logger
}

var _ domain.BlobStore = (*RedisBlobStore)(nil)

func NewRedisBlobStore(rdb redis.Cmdable, logger *logrus.Logger) *RedisBlobStore {
	return &RedisBlobStore{rdb: rdb, log: logger}
}

func (s *RedisBlobStore) Put(ctx context.Context, data []byte, suggestedName string) (string, error) {
	name := uniqueName(suggestedName)
	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf(KeyBlobImage, name), data, 0).Result()
	if err != nil {
		s.log.Errorf("Storage: Failed to store blob %s in redis: %v", name, err)
		return "", fmt.Errorf("could not store image: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("blob '%s' %w", name, domain.ErrConflict)
	}
	s.log.Infof("Storage: Stored blob %s (%d bytes) in redis", name, len(data))
	return URLPrefix + name, nil
}

func (s *RedisBlobStore) Get(ctx context.Context, url string) ([]byte, error) {
	name, err := nameFromURL(url)
	if err != nil {
		return nil, err
	}
	data, err := s.rdb.Get(ctx, fmt.Sprintf(KeyBlobImage, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("blob '%s' %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read image: %w", err)
	}
	return data, nil
}

func (s *RedisBlobStore) Delete(ctx context.Context, url string) error {
	name, err := nameFromURL(url)
	if err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf(KeyBlobImage, name)).Err(); err != nil {
		s.log.Errorf("Storage: Failed to delete blob %s from redis: %v", name, err)
		return fmt.Errorf("could not delete image: %w", err)
	}
	s.log.Infof("Storage: Deleted blob %s from redis", name)
	return nil
}
