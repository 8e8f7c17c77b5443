package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"

	"github.com/moneymoney/backend/internal/config"
)

// QRService issues short-lived QR codes that let a companion device
// import a card without retyping its details.
type QRService struct {
	db    *sql.DB
	redis *redis.Client
	cfg   *config.ReconcileConfig
}

func NewQRService(db *sql.DB, redis *redis.Client) *QRService {
	return &QRService{
		db:    db,
		redis: redis,
		cfg:   config.LoadReconcileConfig(),
	}
}

func (s *QRService) GenerateCardQR(ctx context.Context, userID, cardID string) (string, string, error) {
	var name, number, cardType string
	err := s.db.QueryRowContext(ctx,
		"SELECT name, number, card_type FROM cards WHERE card_id = $1 AND user_id = $2::integer",
		cardID, userID).Scan(&name, &number, &cardType)
	if err == sql.ErrNoRows {
		return "", "", ErrCardNotFound
	}
	if err != nil {
		return "", "", err
	}

	qrData := map[string]any{
		"userId": userID,
		"cardId": cardID,
		"name":   name,
		"number": number,
		"type":   cardType,
		"nonce":  s.generateNonce(),
	}

	jsonData, err := json.Marshal(qrData)
	if err != nil {
		return "", "", err
	}

	qrCode := base64.URLEncoding.EncodeToString(jsonData)

	key := fmt.Sprintf("qr:%s", qrCode)
	if err := s.redis.Set(ctx, key, jsonData, s.cfg.QRCodeTimeout).Err(); err != nil {
		return "", "", err
	}

	qr, err := qrcode.New(qrCode, qrcode.Medium)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	return qrCode, qrImage, nil
}

// ProcessCardQR resolves a scanned code to its card payload. Codes are
// single-use: the redis entry is deleted on first resolve.
func (s *QRService) ProcessCardQR(ctx context.Context, qrData string) (map[string]any, error) {
	key := fmt.Sprintf("qr:%s", qrData)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("invalid or expired QR code")
	}
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	s.redis.Del(ctx, key)

	return result, nil
}

func (s *QRService) generateNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
