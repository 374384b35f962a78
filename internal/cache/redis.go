package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nvoronina/flightbooking/config"
	"github.com/nvoronina/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a cache-aside layer in front of the bookings table. A miss is
// reported as a nil result, never an error.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	data, err := c.client.Get(ctx, bookingKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var b domain.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *RedisCache) SetBooking(ctx context.Context, booking *domain.Booking) error {
	payload, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookingKey(booking.ID), payload, c.ttl).Err()
}

func (c *RedisCache) GetBookingList(ctx context.Context) ([]domain.Booking, error) {
	data, err := c.client.Get(ctx, bookingListKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RedisCache) SetBookingList(ctx context.Context, bookings []domain.Booking) error {
	payload, err := json.Marshal(bookings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookingListKey(), payload, c.ttl).Err()
}

// Invalidate drops both the single-booking entry and the list entry so the
// next read goes back to the database.
func (c *RedisCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, bookingKey(id), bookingListKey()).Err()
}

func bookingKey(id int64) string {
	return fmt.Sprintf("cache:booking:%d", id)
}

func bookingListKey() string {
	return "cache:bookings"
}
