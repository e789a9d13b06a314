package redis

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// OTPStore keeps password-reset codes in Redis with a TTL. Keys are
// scoped per email so a fresh request overwrites the previous code.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:reset:%s", email)
}

func verifiedKey(email string) string {
	return fmt.Sprintf("otp:verified:%s", email)
}

// StoreOTP saves the code under the email key, replacing any pending one.
func (s *OTPStore) StoreOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKey(email), code, ttl).Err(); err != nil {
		logger.Error("Failed to store OTP", err, map[string]interface{}{
			"email": email,
		})
		return err
	}
	return nil
}

// CheckOTP compares the submitted code against the stored one. A missing
// key means the code expired or was never issued.
func (s *OTPStore) CheckOTP(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to read OTP", err, map[string]interface{}{
			"email": email,
		})
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

// MarkVerified flags the email as having passed OTP verification so the
// password reset can complete within the TTL window.
func (s *OTPStore) MarkVerified(ctx context.Context, email string, ttl time.Duration) error {
	return s.client.Set(ctx, verifiedKey(email), "1", ttl).Err()
}

// IsVerified reports whether the email passed OTP verification.
func (s *OTPStore) IsVerified(ctx context.Context, email string) (bool, error) {
	_, err := s.client.Get(ctx, verifiedKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate removes both the pending code and the verified flag.
func (s *OTPStore) Invalidate(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email), verifiedKey(email)).Err()
}
