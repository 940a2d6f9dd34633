//go:build integration

package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventreg/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	now   time.Time
}

func TestRedisBucketStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.now = time.Now().Truncate(time.Millisecond)
	s.store = NewRedisBucketStore(s.redis.Client)
	s.store.now = func() time.Time { return s.now }
}

func (s *RedisBucketStoreSuite) TestAllowUpToLimit() {
	ctx := context.Background()
	for i := range testLimit {
		res, err := s.store.Allow(ctx, "rl:test", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(testLimit-i-1, res.Remaining)
		s.WithinDuration(s.now.Add(testWindow), res.ResetAt, time.Millisecond)
	}

	res, err := s.store.Allow(ctx, "rl:test", testLimit, testWindow)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(0, res.Remaining)

	count, err := s.store.GetCurrentCount(ctx, "rl:test")
	s.Require().NoError(err)
	s.Equal(testLimit, count)
}

func (s *RedisBucketStoreSuite) TestWindowSlides() {
	ctx := context.Background()
	for range testLimit {
		_, err := s.store.Allow(ctx, "rl:slide", testLimit, testWindow)
		s.Require().NoError(err)
	}

	s.now = s.now.Add(testWindow + time.Millisecond)
	res, err := s.store.Allow(ctx, "rl:slide", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(testLimit-1, res.Remaining)
}

func (s *RedisBucketStoreSuite) TestKeyExpires() {
	ctx := context.Background()
	_, err := s.store.Allow(ctx, "rl:ttl", testLimit, testWindow)
	s.Require().NoError(err)

	ttl, err := s.redis.TTL(ctx, "rl:ttl")
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, testWindow)
}

func (s *RedisBucketStoreSuite) TestReset() {
	ctx := context.Background()
	_, err := s.store.Allow(ctx, "rl:reset", testLimit, testWindow)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Reset(ctx, "rl:reset"))

	count, err := s.store.GetCurrentCount(ctx, "rl:reset")
	s.Require().NoError(err)
	s.Zero(count)
}
